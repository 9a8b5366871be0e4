package usecase

import (
	"context"
	"time"

	"smart-calendar/internal/model"
	"smart-calendar/internal/selector"
)

// Normalizer turns a raw model reply into a validated event.
type Normalizer interface {
	Normalize(ctx context.Context, raw []byte) (model.NormalizedEvent, error)
}

// Selector picks a calendar when the model did not.
type Selector interface {
	Select(in selector.Input) model.CalendarType
}

// Options holds the pipeline settings that are not collaborators.
type Options struct {
	Preferences string // Default preference text
	Lang        string // Default status line language
	Timezone    string // IANA name sent to the meeting provider
	TempDir     string
	TempPrefix  string
	TempMaxAge  time.Duration
	Now         func() time.Time
}
