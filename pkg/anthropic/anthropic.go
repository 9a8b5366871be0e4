package anthropic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"smart-calendar/pkg/apperr"
)

// newAnthropicImpl creates a new implementation
func newAnthropicImpl(cfg Config) *anthropicImpl {
	client := cfg.HTTPClient
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
		client = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	}
	return &anthropicImpl{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		version:    cfg.Version,
		maxTokens:  cfg.MaxTokens,
		httpClient: client,
	}
}

// NewRequest builds a single user-turn request
func (a *anthropicImpl) NewRequest(prompt string) *Request {
	return &Request{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}
}

// Send posts body to the messages endpoint
func (a *anthropicImpl) Send(ctx context.Context, body []byte) ([]byte, error) {
	if a.apiKey == "" {
		return nil, apperr.New(apperr.CodeCredentialMissing)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to create request: %w", err)
	}

	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", a.version)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("anthropic: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			RetryAfter: resp.Header.Get("retry-after"),
		}
	}
	return respBody, nil
}

// Model returns the model being used
func (a *anthropicImpl) Model() string {
	return a.model
}
