package usecase

import (
	"context"
	"errors"
	"strings"

	"smart-calendar/internal/emitter"
	"smart-calendar/internal/event"
	"smart-calendar/internal/gateway"
	"smart-calendar/internal/model"
	"smart-calendar/internal/selector"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/locale"
	"smart-calendar/pkg/zoom"
)

// Create runs the pipeline stages in order. Every stage except meeting
// provisioning aborts the run on failure.
func (uc *implUseCase) Create(ctx context.Context, input event.CreateInput) (event.CreateOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return event.CreateOutput{}, event.ErrEmptyInput
	}
	defer uc.sweep(ctx)

	lang := input.Lang
	if lang == "" {
		lang = uc.opts.Lang
	}
	prefs := input.Preferences
	if prefs == "" {
		prefs = uc.opts.Preferences
	}

	uc.l.Infof(ctx, "event.Create: input_length=%d dry_run=%t", len(input.Text), input.DryRun)

	// Step 1: ask the model
	req := gateway.NewEventRequest(input.Text, prefs, uc.dateMath, uc.opts.Now())
	raw, err := uc.gateway.Generate(ctx, req)
	if err != nil {
		uc.l.Errorf(ctx, "event.Create: gateway failed: %v", err)
		return event.CreateOutput{}, err
	}

	// Step 2: normalize the reply
	ev, err := uc.normalizer.Normalize(ctx, raw)
	if err != nil {
		uc.l.Errorf(ctx, "event.Create: normalize failed: %v", err)
		return event.CreateOutput{}, err
	}

	// Step 3: pick a calendar unless the model already did
	if ev.CalendarType == "" {
		ev.CalendarType = uc.selector.Select(selector.Input{
			Text:      input.Text,
			Title:     ev.Title,
			Location:  ev.Location,
			Attendees: ev.Attendees,
		})
		uc.l.Debugf(ctx, "event.Create: selector chose %s", ev.CalendarType)
	}

	// Step 4: provision a meeting when asked for one
	var out event.CreateOutput
	if uc.wantsMeeting(input, ev) {
		m, err := uc.provision(ctx, ev)
		if err != nil {
			uc.l.Warnf(ctx, "event.Create: meeting unavailable, continuing without it: %v", err)
			out.Degraded = true
			out.DegradedNote = uc.locale.DegradedNote(lang, err)
		} else {
			ev.AttachMeeting(model.MeetingResource{ID: m.ID, JoinURL: m.JoinURL, DurationMinutes: m.DurationMinutes})
		}
	}

	// Step 5: emit the calendar command
	var receipt emitter.Receipt
	if input.DryRun {
		receipt, err = uc.emitter.Preview(ctx, ev)
	} else {
		receipt, err = uc.emitter.Emit(ctx, ev)
	}
	if err != nil {
		uc.l.Errorf(ctx, "event.Create: emit failed: %v", err)
		return event.CreateOutput{}, err
	}

	out.Event = ev
	out.Calendar = receipt.Calendar
	out.MeetingURL = ev.MeetingURL
	out.Receipt = receipt
	out.DurationMinutes = ev.DurationMinutes()
	out.StatusLine = uc.locale.StatusLine(lang, locale.Status{
		Title:    ev.Title,
		Calendar: receipt.Calendar,
		Start:    ev.Start,
		AllDay:   ev.AllDay,
		Meeting:  ev.MeetingURL != "",
		Degraded: out.Degraded,
		DryRun:   receipt.DryRun,
	})

	uc.l.Infof(ctx, "event.Create: done calendar=%q backend=%s ref=%s degraded=%t",
		receipt.Calendar, receipt.Backend, receipt.Reference, out.Degraded)
	return out, nil
}

// wantsMeeting reports whether the meeting stage runs. A dry run never
// creates a meeting.
func (uc *implUseCase) wantsMeeting(input event.CreateInput, ev model.NormalizedEvent) bool {
	if uc.meetings == nil || input.DryRun {
		return false
	}
	return zoom.ShouldProvision(input.Text, ev.Location)
}

// provision creates the meeting, retrying once after a token failure.
func (uc *implUseCase) provision(ctx context.Context, ev model.NormalizedEvent) (zoom.Meeting, error) {
	req := zoom.MeetingRequest{
		Topic:     ev.Title,
		Start:     ev.Start,
		End:       ev.End,
		Timezone:  uc.opts.Timezone,
		Attendees: ev.Attendees,
	}
	m, err := uc.meetings.Provision(ctx, req)
	if errors.Is(err, apperr.ErrMeetingTokenFailed) {
		uc.l.Warnf(ctx, "event.Create: meeting token rejected, retrying once")
		m, err = uc.meetings.Provision(ctx, req)
	}
	if err != nil {
		return zoom.Meeting{}, err
	}
	uc.l.Infof(ctx, "event.Create: meeting id=%s duration=%d", m.ID, m.DurationMinutes)
	return m, nil
}

func (uc *implUseCase) sweep(ctx context.Context) {
	if uc.opts.TempPrefix == "" || uc.opts.TempMaxAge <= 0 {
		return
	}
	n, err := emitter.SweepTemp(uc.opts.TempDir, uc.opts.TempPrefix, uc.opts.TempMaxAge)
	if err != nil {
		uc.l.Warnf(ctx, "event.Create: temp sweep failed: %v", err)
		return
	}
	if n > 0 {
		uc.l.Debugf(ctx, "event.Create: removed %d stale temp files", n)
	}
}
