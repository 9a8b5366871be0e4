package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the event routes on r.
func RegisterRoutes(r *gin.RouterGroup, h Handler) {
	r.POST("", h.Create)
}
