package anthropic

import "context"

// IAnthropic is a messages-endpoint client.
// Implementations are safe for concurrent use.
type IAnthropic interface {
	// NewRequest builds a single user-turn request for prompt
	NewRequest(prompt string) *Request

	// Send posts an encoded request body and returns the raw reply body.
	// Non-200 replies are returned as *StatusError.
	Send(ctx context.Context, body []byte) ([]byte, error)

	// Model returns the model being used
	Model() string
}

// New creates a new client with the given configuration. A missing API
// key is not an error here; Send reports it before any I/O.
func New(cfg Config) IAnthropic {
	cfg.setDefaults()
	return newAnthropicImpl(cfg)
}
