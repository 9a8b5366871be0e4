package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smart-calendar/pkg/log"
)

// RequestID reuses the caller's X-Request-ID or generates one, and stores it
// in the request context so every log line of the request carries it.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog logs one line per request.
func (m Middleware) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		switch {
		case status >= 500:
			m.l.Errorf(ctx, "%s %s status=%d latency=%s", c.Request.Method, c.FullPath(), status, time.Since(start))
		case status >= 400:
			m.l.Warnf(ctx, "%s %s status=%d latency=%s", c.Request.Method, c.FullPath(), status, time.Since(start))
		default:
			m.l.Infof(ctx, "%s %s status=%d latency=%s", c.Request.Method, c.FullPath(), status, time.Since(start))
		}
	}
}
