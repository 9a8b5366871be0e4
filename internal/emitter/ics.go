package emitter

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	pkgLog "smart-calendar/pkg/log"
)

const icsProductID = "-//smartcal//EN"

// icsEmitter writes one RFC 5545 file per event.
type icsEmitter struct {
	dir      string
	fallback string
	now      func() time.Time
	newUID   func() string
	l        pkgLog.Logger
}

func (e *icsEmitter) render(ctx context.Context, ev model.NormalizedEvent) ([]byte, Receipt, string, error) {
	if err := validateEvent(ev); err != nil {
		return nil, Receipt{}, "", err
	}
	warnUnknownRecurrence(ctx, e.l, ev)
	uid := e.newUID()
	cal, err := buildCalendar(ev, uid, e.fallback, e.now())
	if err != nil {
		return nil, Receipt{}, "", err
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, Receipt{}, "", apperr.Wrap(apperr.CodeScriptFailed, err, "reason", "encode calendar")
	}
	return buf.Bytes(), Receipt{Backend: BackendICS, Calendar: ev.CalendarName(e.fallback)}, uid, nil
}

func (e *icsEmitter) Preview(ctx context.Context, ev model.NormalizedEvent) (Receipt, error) {
	data, r, uid, err := e.render(ctx, ev)
	if err != nil {
		return Receipt{}, err
	}
	r.Reference, r.Command, r.DryRun = uid, string(data), true
	return r, nil
}

func (e *icsEmitter) Emit(ctx context.Context, ev model.NormalizedEvent) (Receipt, error) {
	data, r, uid, err := e.render(ctx, ev)
	if err != nil {
		return Receipt{}, err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return Receipt{}, apperr.Wrap(apperr.CodeScriptFailed, err, "dir", e.dir)
	}
	path := filepath.Join(e.dir, icsFileName(ev, uid))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.l.Errorf(ctx, "emitter.ics: write %s: %v", path, err)
		return Receipt{}, apperr.Wrap(apperr.CodeScriptFailed, err, "path", path)
	}
	r.Reference = path
	e.l.Infof(ctx, "emitter.ics: wrote %s", path)
	return r, nil
}

// buildCalendar maps ev onto a VCALENDAR with one VEVENT.
func buildCalendar(ev model.NormalizedEvent, uid, fallback string, now time.Time) (*ical.Calendar, error) {
	ve := ical.NewEvent()
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetText(ical.PropSummary, ev.Title)

	if ev.AllDay {
		end := ev.End
		if !end.After(ev.Start) {
			end = ev.Start
		}
		ve.Props.SetDate(ical.PropDateTimeStart, ev.Start)
		// DTEND is exclusive for all-day events.
		ve.Props.SetDate(ical.PropDateTimeEnd, end.AddDate(0, 0, 1))
	} else {
		ve.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
		ve.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
	}

	if d := description(ev); d != "" {
		ve.Props.SetText(ical.PropDescription, d)
	}
	if ev.Location != "" {
		ve.Props.SetText(ical.PropLocation, ev.Location)
	}
	if u, err := url.Parse(ev.URL); ev.URL != "" && err == nil {
		ve.Props.SetURI(ical.PropURL, u)
	}
	if ev.Status != "" && ev.Status != model.StatusNone {
		ve.Props.SetText(ical.PropStatus, strings.ToUpper(string(ev.Status)))
	}
	priority := ical.NewProp(ical.PropPriority)
	priority.Value = icsPriority(ev.Priority)
	ve.Props.Set(priority)
	ve.Props.SetText(ical.PropCategories, ev.CalendarName(fallback))

	if rule := ev.RecurrenceRule(); rule != "" {
		opt, err := rrule.StrToROption(rule)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeValidationFailed, err, "field", "recurrence", "value", rule)
		}
		ve.Props.SetRecurrenceRule(opt)
	}
	for _, d := range ev.ExcludedDates {
		p := ical.NewProp(ical.PropExceptionDates)
		if ev.AllDay {
			p.SetDate(d)
		} else {
			p.SetDateTime(atTimeOf(d, ev.Start))
		}
		ve.Props.Add(p)
	}

	for _, email := range ev.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText("mailto:" + email)
		ve.Props.Add(p)
	}

	for _, minutes := range ev.Alerts {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, ev.Title)
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.SetValueType(ical.ValueDuration)
		trigger.Value = fmt.Sprintf("-PT%dM", minutes)
		alarm.Props.Set(trigger)
		ve.Children = append(ve.Children, alarm)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Children = append(cal.Children, ve.Component)
	return cal, nil
}

// atTimeOf returns day d at the wall-clock time of ref.
func atTimeOf(d, ref time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), ref.Hour(), ref.Minute(), ref.Second(), 0, ref.Location())
}

// icsPriority maps onto the RFC 5545 1 (high) to 9 (low) scale.
func icsPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "1"
	case model.PriorityLow:
		return "9"
	}
	return "5"
}

func icsFileName(ev model.NormalizedEvent, uid string) string {
	return ev.Start.Format("20060102-1504") + "-" + strings.SplitN(uid, "@", 2)[0] + ".ics"
}

func newICSUID() string {
	return uuid.NewString() + "@smartcal"
}
