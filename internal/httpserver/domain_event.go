package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	eventHTTP "smart-calendar/internal/event/delivery/http"
)

// setupEventDomain registers POST /api/v1/events.
func (srv HTTPServer) setupEventDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := eventHTTP.New(srv.l, srv.eventUC, srv.locale)
	eventHTTP.RegisterRoutes(api.Group("/events"), h)

	srv.l.Infof(ctx, "Event domain registered at POST /api/v1/events")
	return nil
}
