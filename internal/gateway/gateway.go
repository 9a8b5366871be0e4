package gateway

import (
	"context"
	"errors"
	"strings"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/llmprovider"
	pkgLog "smart-calendar/pkg/log"
)

type implGateway struct {
	gen Generator
	l   pkgLog.Logger
}

// New creates a Gateway backed by gen.
func New(gen Generator, l pkgLog.Logger) Gateway {
	return &implGateway{gen: gen, l: l}
}

// Generate builds the prompt for req and returns the raw model reply.
func (g *implGateway) Generate(ctx context.Context, req model.EventRequest) (model.RawModelResponse, error) {
	if strings.TrimSpace(req.RawText) == "" {
		return nil, apperr.New(apperr.CodeValidationFailed, "field", "text")
	}

	prompt := BuildEventPrompt(req)
	g.l.Debugf(ctx, "gateway.Generate: prompt_length=%d has_preferences=%t", len(prompt), req.UserPreferences != "")

	resp, err := g.gen.GenerateContent(ctx, &llmprovider.Request{Prompt: prompt})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		if errors.Is(err, llmprovider.ErrNoProvidersConfigured) {
			return nil, apperr.Wrap(apperr.CodeCredentialMissing, err)
		}
		return nil, apperr.Wrap(apperr.CodeRequestFailed, err)
	}
	if len(resp.Body) == 0 {
		return nil, apperr.New(apperr.CodeAIResponseInvalid, "reason", "empty body")
	}

	g.l.Infof(ctx, "gateway.Generate: provider=%s cached=%t bytes=%d", resp.ProviderName, resp.Cached, len(resp.Body))
	return model.RawModelResponse(resp.Body), nil
}
