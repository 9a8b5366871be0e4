package httpserver

import (
	"github.com/gin-gonic/gin"

	"smart-calendar/pkg/response"
)

const (
	HealthMessage = "smartcal event pipeline"
	HealthVersion = "1.0.0"
	ServiceName   = "smart-calendar"
)

func healthBody(status string) gin.H {
	return gin.H{
		"status":  status,
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	}
}

func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, healthBody("healthy"))
}

// readyCheck also lists the languages status lines can be rendered in.
func (srv HTTPServer) readyCheck(c *gin.Context) {
	body := healthBody("ready")
	if srv.locale != nil {
		body["languages"] = srv.locale.Languages()
	}
	response.OK(c, body)
}

func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, healthBody("alive"))
}
