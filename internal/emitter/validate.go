package emitter

import (
	"context"
	"strings"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/datemath"
	pkgLog "smart-calendar/pkg/log"
)

// validateEvent checks what every backend needs before rendering.
func validateEvent(ev model.NormalizedEvent) error {
	if strings.TrimSpace(ev.Title) == "" {
		return apperr.New(apperr.CodeValidationFailed, "field", "title")
	}
	if ev.Start.IsZero() {
		return apperr.New(apperr.CodeDateFormatInvalid, "field", "start_time")
	}
	if ev.End.IsZero() {
		return apperr.New(apperr.CodeDateFormatInvalid, "field", "end_time")
	}
	if !ev.AllDay && ev.End.Before(ev.Start) {
		return apperr.New(apperr.CodeValidationFailed, "field", "end_time", "reason", "ends before it starts")
	}
	return nil
}

// warnUnknownRecurrence logs a recurrence name that renders as no rule, so
// the event is created as a single occurrence.
func warnUnknownRecurrence(ctx context.Context, l pkgLog.Logger, ev model.NormalizedEvent) {
	if ev.Recurrence == "" {
		return
	}
	if _, ok := datemath.LookupRecurrence(string(ev.Recurrence)); !ok {
		l.Warnf(ctx, "emitter: unknown recurrence %q, creating a single event", ev.Recurrence)
	}
}
