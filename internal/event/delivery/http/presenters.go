package http

import (
	"smart-calendar/internal/event"
	"smart-calendar/pkg/response"
)

// --- Request DTOs ---

type createReq struct {
	Text        string `json:"text"        binding:"required,max=8000"`
	Preferences string `json:"preferences" binding:"max=4000"`
	Lang        string `json:"lang"`
	DryRun      bool   `json:"dry_run"`
}

func (r createReq) toInput() event.CreateInput {
	return event.CreateInput{
		Text:        r.Text,
		Preferences: r.Preferences,
		Lang:        r.Lang,
		DryRun:      r.DryRun,
	}
}

// --- Response DTOs ---

type eventResp struct {
	Title         string            `json:"title"`
	Start         response.DateTime `json:"start"`
	End           response.DateTime `json:"end"`
	AllDay        bool              `json:"all_day"`
	Location      string            `json:"location,omitempty"`
	Status        string            `json:"status"`
	Priority      string            `json:"priority"`
	CalendarType  string            `json:"calendar_type"`
	Recurrence    string            `json:"recurrence,omitempty"`
	Alerts        []int             `json:"alerts"`
	Attendees     []string          `json:"attendees"`
	ExcludedDates []response.Date   `json:"excluded_dates"`
}

type createResp struct {
	StatusLine      string    `json:"status_line"`
	Detail          string    `json:"detail,omitempty"`
	Calendar        string    `json:"calendar"`
	MeetingURL      string    `json:"meeting_url,omitempty"`
	Degraded        bool      `json:"degraded"`
	DurationMinutes int       `json:"duration_minutes"`
	Backend         string    `json:"backend"`
	Reference       string    `json:"reference,omitempty"`
	DryRun          bool      `json:"dry_run"`
	Command         string    `json:"command,omitempty"`
	Event           eventResp `json:"event"`
}

func (h *handler) newCreateResp(out event.CreateOutput) createResp {
	ev := out.Event
	excluded := make([]response.Date, len(ev.ExcludedDates))
	for i, d := range ev.ExcludedDates {
		excluded[i] = response.Date(d)
	}
	recurrence := ""
	if ev.Recurrence.Recurring() {
		recurrence = string(ev.Recurrence)
	}
	return createResp{
		StatusLine:      out.StatusLine,
		Detail:          out.DegradedNote,
		Calendar:        out.Calendar,
		MeetingURL:      out.MeetingURL,
		Degraded:        out.Degraded,
		DurationMinutes: out.DurationMinutes,
		Backend:         out.Receipt.Backend,
		Reference:       out.Receipt.Reference,
		DryRun:          out.Receipt.DryRun,
		Command:         out.Receipt.Command,
		Event: eventResp{
			Title:         ev.Title,
			Start:         response.DateTime(ev.Start),
			End:           response.DateTime(ev.End),
			AllDay:        ev.AllDay,
			Location:      ev.Location,
			Status:        string(ev.Status),
			Priority:      string(ev.Priority),
			CalendarType:  string(ev.CalendarType),
			Recurrence:    recurrence,
			Alerts:        nonNilInts(ev.Alerts),
			Attendees:     nonNilStrings(ev.Attendees),
			ExcludedDates: excluded,
		},
	}
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
