package llmprovider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smart-calendar/config"
	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/llmprovider"
	"smart-calendar/pkg/log"
	"smart-calendar/pkg/respcache"
)

// TestIntegration_ConfigToManagerFlow verifies that configuration, provider
// initialization, cache and manager work together against a fake endpoint.
func TestIntegration_ConfigToManagerFlow(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"title\":\"x\"}"}]}`))
	}))
	defer ts.Close()

	cfg := &config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        ts.URL,
		Model:          "test-model",
		MaxTokens:      256,
		ConnectTimeout: time.Second,
		Timeout:        5 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Millisecond,
	}
	cache := respcache.New(respcache.Config{Dir: t.TempDir(), TTL: time.Hour})

	manager, err := llmprovider.NewManagerFromConfig(cfg, cache, log.NewNop())
	if err != nil {
		t.Fatalf("NewManagerFromConfig: %v", err)
	}

	req := &llmprovider.Request{Prompt: "Lunch tomorrow"}
	resp, err := manager.GenerateContent(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if resp.Attempts != 2 || resp.ProviderName != "anthropic" || resp.ModelName != "test-model" {
		t.Errorf("unexpected response metadata: %+v", resp)
	}

	again, err := manager.GenerateContent(context.Background(), req)
	if err != nil {
		t.Fatalf("second GenerateContent: %v", err)
	}
	if !again.Cached || string(again.Body) != string(resp.Body) {
		t.Errorf("expected byte-identical cached body")
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls.Load())
	}
}

// TestIntegration_FallbackModel verifies that a configured fallback model is
// tried when the primary model is rejected.
func TestIntegration_FallbackModel(t *testing.T) {
	var (
		mu     sync.Mutex
		models []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		models = append(models, body.Model)
		mu.Unlock()
		if body.Model == "primary-model" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"type":"error","error":{"type":"not_found_error"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"title\":\"x\"}"}]}`))
	}))
	defer ts.Close()

	cfg := &config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        ts.URL,
		Model:          "primary-model",
		FallbackModel:  "backup-model",
		MaxTokens:      256,
		ConnectTimeout: time.Second,
		Timeout:        5 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Millisecond,
	}
	providers, err := llmprovider.InitializeProviders(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(providers) != 2 || providers[1].Model() != "backup-model" {
		t.Fatalf("expected primary and fallback providers, got %d", len(providers))
	}

	manager, err := llmprovider.NewManagerFromConfig(cfg, nil, log.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	resp, err := manager.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "Lunch tomorrow"})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if resp.ModelName != "backup-model" || resp.Attempts != 1 {
		t.Errorf("unexpected response metadata: %+v", resp)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(models) != 2 || models[0] != "primary-model" || models[1] != "backup-model" {
		t.Errorf("expected one call per model in order, got %v", models)
	}
}

func TestIntegration_FallbackModelSameAsPrimaryIsIgnored(t *testing.T) {
	providers, err := llmprovider.InitializeProviders(&config.AIConfig{Model: "m", FallbackModel: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if len(providers) != 1 {
		t.Errorf("expected a single provider, got %d", len(providers))
	}
}

func TestIntegration_MissingKeyFailsBeforeIO(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	manager, err := llmprovider.NewManagerFromConfig(&config.AIConfig{
		BaseURL:       ts.URL,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, nil, log.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = manager.GenerateContent(context.Background(), &llmprovider.Request{Prompt: "x"})
	if apperr.CodeOf(err) != apperr.CodeCredentialMissing {
		t.Fatalf("expected credential-missing, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", calls.Load())
	}
}
