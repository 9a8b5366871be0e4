package llmprovider

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/log"
	"smart-calendar/pkg/respcache"
)

// Manager orchestrates cache lookup, provider fallback, and retry logic
type Manager struct {
	providers []Provider
	config    *Config
	cache     Cache
	limiter   *rate.Limiter
	group     singleflight.Group
	logger    log.Logger

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the context one shared upstream call runs under. It is detached
// from every caller and cancelled once the last waiting caller has left.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled   bool
	RetryAttempts     int
	RetryDelay        time.Duration
	MaxTotalTimeout   time.Duration // Global timeout for the entire fallback chain
	RequestsPerSecond float64       // Upstream pacing; zero means unlimited
}

// NewManager creates a new Provider Manager. cache may be nil.
func NewManager(providers []Provider, config *Config, cache Cache, logger log.Logger) *Manager {
	if config.RetryAttempts < 1 {
		config.RetryAttempts = 1
	}
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	return &Manager{
		providers: providers,
		config:    config,
		cache:     cache,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
		flights:   make(map[string]*flight),
	}
}

// GenerateContent returns the reply for req. A cached reply for the same
// encoded request is returned without any upstream call, and concurrent
// identical requests share one upstream call.
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	if req == nil || req.Prompt == "" {
		return nil, ErrInvalidRequest
	}

	// Create context with global timeout for entire fallback chain
	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	// Iterate through providers in priority order
	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, apperr.Wrap(apperr.CodeTimedOut, ctx.Err(), "providers", strconv.Itoa(len(m.providers)))
		default:
		}

		resp, err := m.generate(ctx, provider, req)
		if err == nil {
			m.logSuccess(ctx, provider, resp)
			return resp, nil
		}

		m.logFailure(ctx, provider, err)
		lastErr = err

		// If fallback is disabled, stop after first provider
		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, lastErr
}

func (m *Manager) generate(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	body, err := provider.Encode(req)
	if err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: fmt.Errorf("%w: %v", ErrInvalidRequest, err)}
	}
	key := respcache.Key(body)

	if resp, ok := m.lookup(provider, key); ok {
		m.logger.Debugf(ctx, "llmprovider.generate: cache hit key=%s", key[:12])
		return resp, nil
	}

	f := m.join(ctx, key)
	defer m.leave(key, f)

	ch := m.group.DoChan(key, func() (any, error) {
		// A concurrent caller may have filled the cache meanwhile
		if resp, ok := m.lookup(provider, key); ok {
			return resp, nil
		}

		raw, attempts, err := m.generateWithRetry(f.ctx, provider, body)
		if err != nil {
			return nil, err
		}
		if m.cache != nil {
			if err := m.cache.Set(key, raw); err != nil {
				m.logger.Warnf(f.ctx, "llmprovider.generate: cache write failed: %v", err)
			}
		}
		return &Response{
			Body:         raw,
			RequestHash:  key,
			ProviderName: provider.Name(),
			ModelName:    provider.Model(),
			Attempts:     attempts,
		}, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.CodeTimedOut, ctx.Err(), "provider", provider.Name())
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		m.logger.Debugf(ctx, "llmprovider.generate: shared in-flight call key=%s", key[:12])
	}

	resp := *res.Val.(*Response)
	return &resp, nil
}

// join registers the caller as a waiter on the flight for key, starting a
// new one bounded by MaxTotalTimeout when none is in progress.
func (m *Manager) join(ctx context.Context, key string) *flight {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.flights[key]
	if !ok {
		f = &flight{}
		detached := context.WithoutCancel(ctx)
		if m.config.MaxTotalTimeout > 0 {
			f.ctx, f.cancel = context.WithTimeout(detached, m.config.MaxTotalTimeout)
		} else {
			f.ctx, f.cancel = context.WithCancel(detached)
		}
		m.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops a waiter. The last one out cancels the flight and makes the
// next identical request start a fresh upstream call.
func (m *Manager) leave(key string, f *flight) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	delete(m.flights, key)
	m.group.Forget(key)
}

func (m *Manager) lookup(provider Provider, key string) (*Response, bool) {
	if m.cache == nil {
		return nil, false
	}
	body, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	return &Response{
		Body:         body,
		RequestHash:  key,
		ProviderName: provider.Name(),
		ModelName:    provider.Model(),
		Cached:       true,
	}, true
}

// generateWithRetry implements retry with exponential backoff: the wait
// before attempt n (n >= 2) is RetryDelay * 2^(n-2).
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, body []byte) ([]byte, int, error) {
	var lastErr *apperr.Error

	for attempt := 1; attempt <= m.config.RetryAttempts; attempt++ {
		if attempt > 1 {
			delay := backoff(m.config.RetryDelay, attempt-1)
			m.logger.Infof(ctx, "llmprovider.retry: attempt=%d delay=%s last=%s", attempt, delay, lastErr.Code)
			if err := sleep(ctx, delay); err != nil {
				return nil, attempt - 1, apperr.Wrap(apperr.CodeTimedOut, err, "attempts", strconv.Itoa(attempt-1))
			}
		}

		if err := m.limiter.Wait(ctx); err != nil {
			return nil, attempt - 1, apperr.Wrap(apperr.CodeTimedOut, err, "attempts", strconv.Itoa(attempt-1))
		}

		raw, err := provider.Send(ctx, body)
		if err == nil {
			return raw, attempt, nil
		}

		classified, retry := classify(ctx, err)
		lastErr = classified
		if !retry {
			return nil, attempt, classified
		}
	}

	return nil, m.config.RetryAttempts, lastErr.With("attempts", strconv.Itoa(m.config.RetryAttempts))
}

// backoff returns base * 2^(n-1).
func backoff(base time.Duration, n int) time.Duration {
	if n < 1 || base <= 0 {
		return 0
	}
	d := float64(base) * math.Pow(2, float64(n-1))
	if d > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// logSuccess logs a successful generation
func (m *Manager) logSuccess(ctx context.Context, provider Provider, resp *Response) {
	m.logger.Infof(ctx, "LLM generation successful provider=%s model=%s cached=%t attempts=%d bytes=%d",
		provider.Name(), provider.Model(), resp.Cached, resp.Attempts, len(resp.Body))
}

// logFailure logs a failed generation
func (m *Manager) logFailure(ctx context.Context, provider Provider, err error) {
	m.logger.Warnf(ctx, "LLM generation failed provider=%s model=%s error=%v",
		provider.Name(), provider.Model(), err)
}
