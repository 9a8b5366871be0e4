package http

import (
	"github.com/gin-gonic/gin"

	"smart-calendar/internal/event"
	"smart-calendar/pkg/response"
)

// Create turns the posted text into a calendar event.
// POST /api/v1/events
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	if req.Lang == "" {
		req.Lang = c.GetHeader("Accept-Language")
	}

	output, err := h.uc.Create(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Create: %v", err)
		line, hint := event.StatusLines(h.locale, req.Lang, event.CreateOutput{}, err)
		response.Error(c, err, line, hint)
		return
	}

	response.OK(c, h.newCreateResp(output))
}
