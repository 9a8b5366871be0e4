package gateway

import (
	"context"

	"smart-calendar/internal/model"
	"smart-calendar/pkg/llmprovider"
)

// Gateway turns an event request into the model's raw reply.
type Gateway interface {
	Generate(ctx context.Context, req model.EventRequest) (model.RawModelResponse, error)
}

// Generator is the cache-aware provider manager.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}
