package anthropic

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds client configuration
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Version        string
	MaxTokens      int
	ConnectTimeout time.Duration
	Timeout        time.Duration
	HTTPClient     *http.Client
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Request is the messages request body
type Request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the messages reply body
type Response struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// ContentBlock is one block of reply content
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Text concatenates the text blocks of a reply.
func (r *Response) Text() string {
	var sb strings.Builder
	for _, b := range r.Content {
		if b.Type == "text" || b.Type == "" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// StatusError is a non-200 reply.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("anthropic: API error %d: %s", e.StatusCode, body)
}

// HTTPStatus returns the HTTP status code of the reply.
func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// anthropicImpl is the internal implementation of IAnthropic
type anthropicImpl struct {
	apiKey     string
	baseURL    string
	model      string
	version    string
	maxTokens  int
	httpClient *http.Client
}
