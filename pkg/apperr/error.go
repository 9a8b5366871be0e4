package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is the single error value every pipeline stage returns.
type Error struct {
	Code    Code
	Message string
	Hint    string
	Context map[string]string
	Err     error
}

// Sentinels for errors.Is matching by code.
var (
	ErrCredentialMissing     = &Error{Code: CodeCredentialMissing}
	ErrCredentialInvalid     = &Error{Code: CodeCredentialInvalid}
	ErrNetworkUnavailable    = &Error{Code: CodeNetworkUnavailable}
	ErrRequestFailed         = &Error{Code: CodeRequestFailed}
	ErrRateLimited           = &Error{Code: CodeRateLimited}
	ErrTimedOut              = &Error{Code: CodeTimedOut}
	ErrJSONParseFailed       = &Error{Code: CodeJSONParseFailed}
	ErrValidationFailed      = &Error{Code: CodeValidationFailed}
	ErrDateFormatInvalid     = &Error{Code: CodeDateFormatInvalid}
	ErrDateConversionFailed  = &Error{Code: CodeDateConversionFailed}
	ErrTimezoneInvalid       = &Error{Code: CodeTimezoneInvalid}
	ErrAIResponseInvalid     = &Error{Code: CodeAIResponseInvalid}
	ErrMeetingTokenFailed    = &Error{Code: CodeMeetingTokenFailed}
	ErrMeetingCreationFailed = &Error{Code: CodeMeetingCreationFailed}
	ErrScriptFailed          = &Error{Code: CodeScriptFailed}
	ErrPermissionDenied      = &Error{Code: CodePermissionDenied}
	ErrDependencyMissing     = &Error{Code: CodeDependencyMissing}
	ErrUserCancelled         = &Error{Code: CodeUserCancelled}
	ErrAppNotRunning         = &Error{Code: CodeAppNotRunning}
)

// New creates an error for code. kv is an alternating key/value list
// stored as diagnostic context.
func New(code Code, kv ...string) *Error {
	return &Error{
		Code:    code,
		Message: code.Message(),
		Hint:    code.Hint(),
		Context: pairs(kv),
	}
}

// Wrap is New with an underlying cause.
func Wrap(code Code, err error, kv ...string) *Error {
	e := New(code, kv...)
	e.Err = err
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, e.Context[k])
		}
		sb.WriteString("]")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Retryable reports whether the code is retryable.
func (e *Error) Retryable() bool {
	return e.Code.Retryable()
}

// With adds one context entry and returns e.
func (e *Error) With(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsRetryable reports whether err carries a retryable code.
func IsRetryable(err error) bool {
	e, ok := As(err)
	return ok && e.Retryable()
}

func pairs(kv []string) map[string]string {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
