package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// Encode renders a request into the provider's wire body. The encoded
	// body is also the cache identity of the request.
	Encode(req *Request) ([]byte, error)

	// Send posts an encoded body and returns the raw reply body
	Send(ctx context.Context, body []byte) ([]byte, error)

	// Name returns the provider name (e.g., "anthropic")
	Name() string

	// Model returns the model being used
	Model() string
}

// Cache stores successful raw replies by request hash.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, body []byte) error
}

// Request represents a single-turn generation request
type Request struct {
	Prompt string
}

// Response represents a raw generation reply
type Response struct {
	Body         []byte
	RequestHash  string
	ProviderName string
	ModelName    string
	Cached       bool
	Attempts     int
}
