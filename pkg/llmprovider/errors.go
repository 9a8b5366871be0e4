package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"smart-calendar/pkg/apperr"
)

var (
	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrInvalidRequest indicates the request is malformed
	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderError wraps provider-specific errors
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// statusCoder is implemented by provider errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// classify maps a provider failure onto the error taxonomy and reports
// whether another attempt may succeed.
func classify(ctx context.Context, err error) (*apperr.Error, bool) {
	if e, ok := apperr.As(err); ok {
		return e, e.Retryable()
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		status := sc.HTTPStatus()
		kv := []string{"status", strconv.Itoa(status)}
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return apperr.Wrap(apperr.CodeCredentialInvalid, err, kv...), false
		case status == http.StatusTooManyRequests:
			return apperr.Wrap(apperr.CodeRateLimited, err, kv...), true
		case status >= http.StatusInternalServerError:
			return apperr.Wrap(apperr.CodeRequestFailed, err, kv...), true
		default:
			return apperr.Wrap(apperr.CodeRequestFailed, err, kv...), false
		}
	}

	// The caller's own deadline or cancellation ends the retry loop.
	if ctx.Err() != nil {
		return apperr.Wrap(apperr.CodeTimedOut, err), false
	}

	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return apperr.Wrap(apperr.CodeTimedOut, err), true
	}
	return apperr.Wrap(apperr.CodeNetworkUnavailable, err), true
}
