package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-calendar/pkg/apperr"
)

// ErrorDetail carries the machine-readable part of a failure.
type ErrorDetail struct {
	Code string `json:"code"`
	Hint string `json:"hint,omitempty"`
}

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends err with the status mapped from its code. Empty message and
// hint fall back to the code's English text.
func Error(c *gin.Context, err error, message, hint string) {
	status := HTTPStatus(err)
	detail := ErrorDetail{Code: "internal"}
	if e, ok := apperr.As(err); ok {
		detail.Code = string(e.Code)
		if message == "" {
			message = e.Message
		}
		if hint == "" {
			hint = e.Hint
		}
	}
	if message == "" {
		message = DefaultErrorMessage
	}
	detail.Hint = hint

	c.JSON(status, Resp{
		ErrorCode: status,
		Message:   message,
		Errors:    detail,
	})
}

// BadRequest sends 400 for a request that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: http.StatusBadRequest,
		Message:   err.Error(),
		Errors:    ErrorDetail{Code: "bad-request"},
	})
}

// HTTPStatus maps an error to the HTTP status reported for it.
func HTTPStatus(err error) int {
	e, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.CodeTimedOut:
		return http.StatusGatewayTimeout
	case apperr.CodeUserCancelled:
		return http.StatusConflict
	}
	switch e.Code.Domain() {
	case apperr.DomainCredential:
		return http.StatusUnauthorized
	case apperr.DomainData:
		return http.StatusUnprocessableEntity
	case apperr.DomainTransport, apperr.DomainIntegration:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
