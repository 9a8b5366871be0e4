package normalizer

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/datemath"
	pkgLog "smart-calendar/pkg/log"
)

// DefaultDuration is the length of an event whose end is unknown.
const DefaultDuration = 60 * time.Minute

// Normalizer turns raw model replies into validated events.
type Normalizer struct {
	loc             *time.Location
	defaultDuration time.Duration
	relative        *datemath.Parser
	now             func() time.Time
	l               pkgLog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the reference time for relative dates such as "tomorrow 14:00".
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// New creates a Normalizer that reads wall-clock times in loc.
func New(loc *time.Location, l pkgLog.Logger, opts ...Option) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	n := &Normalizer{
		loc:             loc,
		defaultDuration: DefaultDuration,
		relative:        datemath.NewParserInLocation(loc),
		now:             time.Now,
		l:               l,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// parseTime reads an absolute wall-clock value, then a relative one the
// model failed to resolve.
func (n *Normalizer) parseTime(ctx context.Context, value string) (time.Time, bool, error) {
	t, dateOnly, err := datemath.ParseLocal(value, n.loc)
	if err == nil {
		return t, dateOnly, nil
	}
	res, relErr := n.relative.ParseDateTime(value, n.now())
	if relErr != nil {
		return time.Time{}, false, err
	}
	n.l.Warnf(ctx, "normalizer: resolved relative date %q to %s", value, res.AbsoluteTime.Format(datemath.DateTimeLayout))
	return res.AbsoluteTime, res.IsAllDay, nil
}

// Normalize extracts, validates and defaults one event from raw.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte) (model.NormalizedEvent, error) {
	draft, strategy, err := Extract(raw)
	if err != nil {
		n.l.Errorf(ctx, "normalizer.Normalize: extraction failed bytes=%d: %v", len(raw), err)
		return model.NormalizedEvent{}, err
	}
	n.l.Debugf(ctx, "normalizer.Normalize: strategy=%s", strategy)
	if strategy == StrategyPattern {
		n.l.Warnf(ctx, "normalizer.Normalize: structural parsing failed, used pattern scan")
	}

	ev, err := n.Validate(ctx, draft)
	if err != nil {
		return model.NormalizedEvent{}, err
	}
	n.l.Infof(ctx, "normalizer.Normalize: title=%q start=%s duration=%d", ev.Title,
		ev.Start.Format(datemath.DateTimeLayout), ev.DurationMinutes())
	return ev, nil
}

// Validate checks required fields and enum values and fills defaults.
func (n *Normalizer) Validate(ctx context.Context, d EventDraft) (model.NormalizedEvent, error) {
	title := strings.Join(strings.Fields(d.Title), " ")
	if title == "" {
		return model.NormalizedEvent{}, apperr.New(apperr.CodeValidationFailed, "field", "title", "value", "")
	}
	if d.StartTime == "" {
		return model.NormalizedEvent{}, apperr.New(apperr.CodeValidationFailed, "field", "start_time", "value", "")
	}

	start, dateOnly, err := n.parseTime(ctx, d.StartTime)
	if err != nil {
		return model.NormalizedEvent{}, apperr.Wrap(apperr.CodeDateFormatInvalid, err, "field", "start_time", "value", d.StartTime)
	}
	allDay := d.AllDay || dateOnly
	start = start.Truncate(time.Second)
	if allDay {
		start = midnight(start)
	}

	end, err := n.resolveEnd(ctx, d.EndTime, start, allDay)
	if err != nil {
		return model.NormalizedEvent{}, err
	}

	ev := model.NormalizedEvent{
		Title:       title,
		Start:       start,
		End:         end,
		AllDay:      allDay,
		Description: strings.TrimSpace(d.Description),
		Location:    strings.TrimSpace(d.Location),
		URL:         strings.TrimSpace(d.URL),
	}

	var ok bool
	if ev.Status, ok = model.ParseStatus(d.Status); !ok {
		return model.NormalizedEvent{}, apperr.New(apperr.CodeValidationFailed, "field", "status", "value", d.Status)
	}
	if ev.Priority, ok = model.ParsePriority(d.Priority); !ok {
		return model.NormalizedEvent{}, apperr.New(apperr.CodeValidationFailed, "field", "priority", "value", d.Priority)
	}
	if ev.CalendarType, ok = model.ParseCalendarType(d.CalendarType); !ok {
		return model.NormalizedEvent{}, apperr.New(apperr.CodeValidationFailed, "field", "calendar_type", "value", d.CalendarType)
	}
	if ev.Recurrence, ok = model.ParseRecurrence(d.Recurrence); !ok {
		return model.NormalizedEvent{}, apperr.New(apperr.CodeValidationFailed, "field", "recurrence", "value", d.Recurrence)
	}

	ev.Alerts = normalizeAlerts(d.Alerts)
	ev.Attendees = normalizeAttendees(d.Attendees)
	ev.ExcludedDates = n.normalizeExcluded(ctx, d.ExcludedDates)
	return ev, nil
}

// resolveEnd applies the end-time defaults. A timed event ending before it
// starts is clamped to start + default duration; an all-day event to its
// start day.
func (n *Normalizer) resolveEnd(ctx context.Context, raw string, start time.Time, allDay bool) (time.Time, error) {
	if raw == "" {
		if allDay {
			return start, nil
		}
		return start.Add(n.defaultDuration), nil
	}

	end, endDateOnly, err := n.parseTime(ctx, raw)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.CodeDateFormatInvalid, err, "field", "end_time", "value", raw)
	}
	end = end.Truncate(time.Second)
	if allDay || endDateOnly {
		end = midnight(end)
	}

	if mins := datemath.Duration(start, end); mins < 0 {
		n.l.Warnf(ctx, "normalizer: end precedes start by %d minutes, clamping", -mins)
		if allDay {
			return start, nil
		}
		return start.Add(n.defaultDuration), nil
	}
	return end, nil
}

func (n *Normalizer) normalizeExcluded(ctx context.Context, in []string) []time.Time {
	seen := make(map[string]bool, len(in))
	out := make([]time.Time, 0, len(in))
	for _, s := range in {
		t, _, err := n.parseTime(ctx, s)
		if err != nil {
			n.l.Warnf(ctx, "normalizer: dropping unparsable excluded date %q", s)
			continue
		}
		t = midnight(t)
		key := t.Format(datemath.DateLayout)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func normalizeAlerts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, a := range in {
		if a < 0 || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func normalizeAttendees(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		addr := strings.TrimSpace(s)
		if a, err := mail.ParseAddress(addr); err == nil {
			addr = a.Address
		}
		addr = strings.ToLower(addr)
		if !strings.Contains(addr, "@") || strings.ContainsAny(addr, " <>") || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
