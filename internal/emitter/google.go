package emitter

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/gcalendar"
	pkgLog "smart-calendar/pkg/log"
)

// googleEmitter inserts events through the Calendar API.
type googleEmitter struct {
	client   *gcalendar.Client
	ids      map[string]string
	fallback string
	timezone string
	l        pkgLog.Logger
}

func (e *googleEmitter) request(ctx context.Context, ev model.NormalizedEvent) (gcalendar.CreateEventRequest, Receipt, error) {
	if err := validateEvent(ev); err != nil {
		return gcalendar.CreateEventRequest{}, Receipt{}, err
	}
	warnUnknownRecurrence(ctx, e.l, ev)
	name := ev.CalendarName(e.fallback)
	req := gcalendar.CreateEventRequest{
		CalendarID:      e.calendarID(name),
		Summary:         ev.Title,
		Description:     description(ev),
		Location:        ev.Location,
		StartTime:       ev.Start,
		EndTime:         ev.End,
		AllDay:          ev.AllDay,
		Timezone:        e.timezone,
		Attendees:       ev.Attendees,
		ReminderMinutes: ev.Alerts,
	}
	if ev.Status != model.StatusNone {
		req.Status = string(ev.Status)
	}
	if rule := ev.RecurrenceRule(); rule != "" {
		req.Recurrence = append(req.Recurrence, "RRULE:"+rule)
		for _, d := range ev.ExcludedDates {
			req.Recurrence = append(req.Recurrence, e.exdate(ev, d))
		}
	}
	return req, Receipt{Backend: BackendGoogle, Calendar: name}, nil
}

// calendarID maps a display name to a configured id. Names are also tried
// lower-cased and in canonical form so config keys like "high_priority" work.
func (e *googleEmitter) calendarID(name string) string {
	for _, key := range []string{name, strings.ToLower(name)} {
		if id, ok := e.ids[key]; ok {
			return id
		}
	}
	if c, ok := model.CalendarTypeByName(name); ok {
		if id, ok := e.ids[string(c)]; ok {
			return id
		}
	}
	return "primary"
}

func (e *googleEmitter) exdate(ev model.NormalizedEvent, d time.Time) string {
	if ev.AllDay {
		return "EXDATE;VALUE=DATE:" + d.Format("20060102")
	}
	at := atTimeOf(d, ev.Start)
	if e.timezone != "" {
		return "EXDATE;TZID=" + e.timezone + ":" + at.Format("20060102T150405")
	}
	return "EXDATE:" + at.UTC().Format("20060102T150405Z")
}

func (e *googleEmitter) Preview(ctx context.Context, ev model.NormalizedEvent) (Receipt, error) {
	req, r, err := e.request(ctx, ev)
	if err != nil {
		return Receipt{}, err
	}
	body, err := json.MarshalIndent(gcalendar.BuildEvent(req), "", "  ")
	if err != nil {
		return Receipt{}, apperr.Wrap(apperr.CodeScriptFailed, err)
	}
	r.Reference, r.Command, r.DryRun = req.CalendarID, string(body), true
	return r, nil
}

func (e *googleEmitter) Emit(ctx context.Context, ev model.NormalizedEvent) (Receipt, error) {
	req, r, err := e.request(ctx, ev)
	if err != nil {
		return Receipt{}, err
	}

	created, err := e.client.CreateEvent(ctx, req)
	if err != nil {
		e.l.Errorf(ctx, "emitter.google: insert into %s failed: %v", req.CalendarID, err)
		return Receipt{}, classifyAPIError(err)
	}
	r.Reference = created.ID
	e.l.Infof(ctx, "emitter.google: created event id=%s calendar=%q", created.ID, r.Calendar)
	return r, nil
}

// classifyAPIError maps Calendar API failures onto the error taxonomy.
func classifyAPIError(err error) *apperr.Error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		status := strconv.Itoa(gerr.Code)
		switch gerr.Code {
		case http.StatusUnauthorized:
			return apperr.Wrap(apperr.CodeCredentialInvalid, err, "status", status)
		case http.StatusForbidden:
			return apperr.Wrap(apperr.CodePermissionDenied, err, "status", status)
		case http.StatusTooManyRequests:
			return apperr.Wrap(apperr.CodeRateLimited, err, "status", status)
		}
		return apperr.Wrap(apperr.CodeScriptFailed, err, "status", status)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperr.Wrap(apperr.CodeTimedOut, err)
		}
		return apperr.Wrap(apperr.CodeNetworkUnavailable, err)
	}
	return apperr.Wrap(apperr.CodeScriptFailed, err)
}
