package model

import (
	"strings"
	"time"

	"smart-calendar/pkg/datemath"
)

// EventRequest is the immutable input of one pipeline run.
type EventRequest struct {
	RawText           string
	ReferenceToday    string
	ReferenceTomorrow string
	UserPreferences   string
	References        datemath.References
}

// RawModelResponse is the unparsed reply body of the AI gateway.
type RawModelResponse []byte

// MeetingResource is a provisioned video meeting.
type MeetingResource struct {
	ID              string
	JoinURL         string
	DurationMinutes int
}

// NormalizedEvent is a validated event ready for emission. Start and End
// are wall-clock times in the resolved timezone.
type NormalizedEvent struct {
	Title         string
	Start         time.Time
	End           time.Time
	AllDay        bool
	Description   string
	Location      string
	URL           string
	MeetingURL    string
	Status        Status
	Priority      Priority
	CalendarType  CalendarType
	Alerts        []int
	Recurrence    Recurrence
	ExcludedDates []time.Time
	Attendees     []string
	Meeting       *MeetingResource
}

// DurationMinutes returns the event length in minutes.
func (e NormalizedEvent) DurationMinutes() int {
	return datemath.Duration(e.Start, e.End)
}

// RecurrenceRule returns the iCalendar rule for the event's recurrence.
func (e NormalizedEvent) RecurrenceRule() string {
	return datemath.MapRecurrence(string(e.Recurrence))
}

// CalendarName returns the host calendar name, or fallback when no type is set.
func (e NormalizedEvent) CalendarName(fallback string) string {
	if e.CalendarType.Valid() {
		return e.CalendarType.DisplayName()
	}
	return fallback
}

// AttachMeeting records a provisioned meeting on the event.
func (e *NormalizedEvent) AttachMeeting(m MeetingResource) {
	e.Meeting = &m
	e.MeetingURL = m.JoinURL
	if e.URL == "" {
		e.URL = m.JoinURL
	}
}

// enumKey folds case and separators so "High Priority", "high-priority"
// and "HIGH_PRIORITY" compare equal.
func enumKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
