package http

import (
	"github.com/gin-gonic/gin"

	"smart-calendar/internal/event"
	"smart-calendar/pkg/locale"
	"smart-calendar/pkg/log"
)

// Handler is the public interface for the event HTTP delivery layer.
type Handler interface {
	Create(c *gin.Context)
}

type handler struct {
	l      log.Logger
	uc     event.UseCase
	locale *locale.Locale
}

// New creates a new HTTP handler for the event domain.
func New(l log.Logger, uc event.UseCase, loc *locale.Locale) Handler {
	if loc == nil {
		loc = locale.New()
	}
	return &handler{
		l:      l,
		uc:     uc,
		locale: loc,
	}
}
