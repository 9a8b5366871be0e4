package llmprovider

import (
	"context"
	"encoding/json"

	"smart-calendar/pkg/anthropic"
)

// AnthropicAdapter adapts pkg/anthropic to llmprovider.Provider interface
type AnthropicAdapter struct {
	client anthropic.IAnthropic
}

// NewAnthropicAdapter creates a new Anthropic adapter
func NewAnthropicAdapter(client anthropic.IAnthropic) *AnthropicAdapter {
	return &AnthropicAdapter{client: client}
}

// Encode implements Provider interface
func (a *AnthropicAdapter) Encode(req *Request) ([]byte, error) {
	return json.Marshal(a.client.NewRequest(req.Prompt))
}

// Send implements Provider interface
func (a *AnthropicAdapter) Send(ctx context.Context, body []byte) ([]byte, error) {
	return a.client.Send(ctx, body)
}

// Name returns provider name
func (a *AnthropicAdapter) Name() string {
	return "anthropic"
}

// Model returns model name
func (a *AnthropicAdapter) Model() string {
	return a.client.Model()
}
