package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"github.com/haaslab/hwtracker/backend/internal/services"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	statsService *services.StatsService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		statsService: services.NewStatsService(db),
	}
}

// GetStats returns dashboard statistics
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	resp, err := h.statsService.GetStats()
	if err != nil {
		if errors.Is(err, models.ErrNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
