package middleware

import "smart-calendar/pkg/log"

// HeaderRequestID carries the request id in and out of the service.
const HeaderRequestID = "X-Request-ID"

type Middleware struct {
	l log.Logger
}

func New(l log.Logger) Middleware {
	return Middleware{l: l}
}
