package event

import "smart-calendar/pkg/apperr"

// Domain-specific errors for the event package.
var (
	ErrEmptyInput = apperr.New(apperr.CodeValidationFailed, "field", "text")
)
