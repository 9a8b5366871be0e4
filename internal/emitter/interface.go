package emitter

import (
	"context"

	"smart-calendar/internal/model"
)

// Emitter turns a normalized event into a calendar mutation.
type Emitter interface {
	// Emit validates ev and executes the mutation.
	Emit(ctx context.Context, ev model.NormalizedEvent) (Receipt, error)

	// Preview validates ev and returns the rendered command without
	// executing it.
	Preview(ctx context.Context, ev model.NormalizedEvent) (Receipt, error)
}
