package model

import "smart-calendar/pkg/datemath"

// CalendarType is one of the seven target calendars.
type CalendarType string

const (
	CalendarHighPriority   CalendarType = "high_priority"
	CalendarMediumPriority CalendarType = "medium_priority"
	CalendarLowPriority    CalendarType = "low_priority"
	CalendarWork           CalendarType = "work"
	CalendarPersonal       CalendarType = "personal"
	CalendarDeadlines      CalendarType = "deadlines"
	CalendarMeetings       CalendarType = "meetings"
)

var calendarNames = map[CalendarType]string{
	CalendarHighPriority:   "High Priority",
	CalendarMediumPriority: "Medium Priority",
	CalendarLowPriority:    "Low Priority",
	CalendarWork:           "Work",
	CalendarPersonal:       "Personal",
	CalendarDeadlines:      "Deadlines",
	CalendarMeetings:       "Meetings",
}

var calendarAliases = map[string]CalendarType{
	"high":     CalendarHighPriority,
	"medium":   CalendarMediumPriority,
	"low":      CalendarLowPriority,
	"deadline": CalendarDeadlines,
	"meeting":  CalendarMeetings,
}

// CalendarTypes lists every calendar type.
func CalendarTypes() []CalendarType {
	return []CalendarType{
		CalendarHighPriority, CalendarMediumPriority, CalendarLowPriority,
		CalendarWork, CalendarPersonal, CalendarDeadlines, CalendarMeetings,
	}
}

// Valid reports whether c is a known calendar type.
func (c CalendarType) Valid() bool {
	_, ok := calendarNames[c]
	return ok
}

// DisplayName returns the calendar name shown in the host application.
func (c CalendarType) DisplayName() string {
	return calendarNames[c]
}

// ParseCalendarType accepts the canonical value, the display name, or a
// short alias. Empty input yields ("", true).
func ParseCalendarType(s string) (CalendarType, bool) {
	key := enumKey(s)
	if key == "" {
		return "", true
	}
	if c := CalendarType(key); c.Valid() {
		return c, true
	}
	if c, ok := calendarAliases[key]; ok {
		return c, true
	}
	return "", false
}

// CalendarTypeByName maps a display name back to its type.
func CalendarTypeByName(name string) (CalendarType, bool) {
	for c, n := range calendarNames {
		if n == name {
			return c, true
		}
	}
	return "", false
}

// Status is the event confirmation state.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusCancelled Status = "cancelled"
	StatusNone      Status = "none"
)

// ParseStatus normalizes s. Empty input yields the default status.
func ParseStatus(s string) (Status, bool) {
	switch enumKey(s) {
	case "", "confirmed", "confirm":
		return StatusConfirmed, true
	case "tentative", "maybe":
		return StatusTentative, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	case "none":
		return StatusNone, true
	}
	return "", false
}

// Priority is the event urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes s. Empty input yields the default priority.
func ParsePriority(s string) (Priority, bool) {
	switch enumKey(s) {
	case "high", "high_priority", "urgent", "important":
		return PriorityHigh, true
	case "", "medium", "medium_priority", "normal":
		return PriorityMedium, true
	case "low", "low_priority":
		return PriorityLow, true
	}
	return "", false
}

// Recurrence is a named repeat pattern.
type Recurrence string

const RecurrenceNone Recurrence = datemath.RecurNone

// ParseRecurrence resolves aliases such as "TTh" or "MWF". Empty input
// yields RecurrenceNone.
func ParseRecurrence(s string) (Recurrence, bool) {
	name, ok := datemath.CanonicalRecurrence(s)
	if !ok {
		return "", false
	}
	return Recurrence(name), true
}

// Recurring reports whether r repeats.
func (r Recurrence) Recurring() bool {
	return r != "" && r != RecurrenceNone
}
