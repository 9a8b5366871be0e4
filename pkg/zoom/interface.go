package zoom

import "context"

// IZoom provisions scheduled video meetings.
// Implementations are safe for concurrent use.
type IZoom interface {
	// Provision creates a meeting. An HTTP 401 clears the cached token and
	// returns meeting-token-failed so the caller may retry once.
	Provision(ctx context.Context, req MeetingRequest) (Meeting, error)
}

// New creates a new client with the given configuration.
func New(cfg Config) IZoom {
	cfg.setDefaults()
	return newZoomImpl(cfg)
}
