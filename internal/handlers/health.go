package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/models"
)

// HealthHandler reports service liveness. The endpoint always answers 200
// so load balancers keep routing; a lost database shows up as "degraded"
// in the body rather than a failed probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "ok"

	dbStatus := "ok"
	db := models.GetDB()
	if db == nil {
		dbStatus = "not connected"
		overall = "degraded"
	} else if sqlDB, err := db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "degraded"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "degraded"
	}

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "hwtracker",
		"components": gin.H{
			"database": dbStatus,
		},
	})
}
