package handler

import (
	"github.com/gin-gonic/gin"

	"fieldatlas/internal/service"
)

// StatsHandler handles archive statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
