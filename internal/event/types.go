package event

import (
	"smart-calendar/internal/emitter"
	"smart-calendar/internal/model"
)

// CreateInput is the input of one pipeline run.
type CreateInput struct {
	Text        string // Natural language event description
	Preferences string // Optional calendar preference text, overrides configured preferences
	Lang        string // Status line language, e.g. "en" or "zh-Hans"
	DryRun      bool   // Render the calendar command without executing it
}

// CreateOutput is the result of a successful run.
type CreateOutput struct {
	Event           model.NormalizedEvent
	Calendar        string
	MeetingURL      string
	Degraded        bool
	DegradedNote    string
	Receipt         emitter.Receipt
	StatusLine      string
	DurationMinutes int
}
