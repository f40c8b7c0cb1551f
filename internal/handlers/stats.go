package handlers

import (
	"net/http"

	"leadlink/internal/services"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{}

func NewStatsHandler() *StatsHandler {
	return &StatsHandler{}
}

// Get returns totals across all posts and leads, computed on demand.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := services.ComputeStats()
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
