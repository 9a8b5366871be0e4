package anthropic

import "time"

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "claude-3-5-haiku-latest"

	// DefaultBaseURL is the default API endpoint
	DefaultBaseURL = "https://api.anthropic.com/v1"

	// DefaultVersion is sent in the anthropic-version header
	DefaultVersion = "2023-06-01"

	// DefaultMaxTokens bounds the reply size
	DefaultMaxTokens = 1024

	// DefaultTimeout is the total per-request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultConnectTimeout bounds TCP connect
	DefaultConnectTimeout = 10 * time.Second
)
