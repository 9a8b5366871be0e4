package gcalendar

import "time"

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	Location    string
	Status      string // confirmed, tentative or cancelled
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
	Timezone    string // e.g. "Asia/Shanghai"

	// Recurrence holds RFC 5545 lines such as "RRULE:FREQ=WEEKLY".
	Recurrence []string
	Attendees  []string
	// ReminderMinutes are popup reminders; empty keeps calendar defaults.
	ReminderMinutes []int
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
}
