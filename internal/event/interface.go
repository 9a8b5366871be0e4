package event

import "context"

// UseCase defines the event-materialization pipeline.
type UseCase interface {
	// Create turns free text into a calendar event. A failed meeting
	// provisioning does not fail the run; it is reported as degraded.
	Create(ctx context.Context, input CreateInput) (CreateOutput, error)
}
