package llmprovider

import (
	"fmt"

	"smart-calendar/config"
	"smart-calendar/pkg/anthropic"
	"smart-calendar/pkg/log"
)

// InitializeProviders creates Provider instances from config.AIConfig.
// A fallback model, when configured, is tried after the primary one.
// A missing API key is allowed; the provider reports credential-missing
// on first use.
func InitializeProviders(cfg *config.AIConfig) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("AI config is nil")
	}

	providers := []Provider{newAnthropicProvider(cfg, cfg.Model)}
	if cfg.FallbackModel != "" && cfg.FallbackModel != cfg.Model {
		providers = append(providers, newAnthropicProvider(cfg, cfg.FallbackModel))
	}
	return providers, nil
}

func newAnthropicProvider(cfg *config.AIConfig, model string) Provider {
	return NewAnthropicAdapter(anthropic.New(anthropic.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          model,
		Version:        cfg.APIVersion,
		MaxTokens:      cfg.MaxTokens,
		ConnectTimeout: cfg.ConnectTimeout,
		Timeout:        cfg.Timeout,
	}))
}

// NewManagerFromConfig wires providers, retry policy and cache from cfg.
func NewManagerFromConfig(cfg *config.AIConfig, cache Cache, logger log.Logger) (*Manager, error) {
	providers, err := InitializeProviders(cfg)
	if err != nil {
		return nil, err
	}
	return NewManager(providers, &Config{
		FallbackEnabled:   len(providers) > 1,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
		MaxTotalTimeout:   cfg.MaxTotalTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, cache, logger), nil
}
