package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"github.com/haaslab/hwtracker/backend/internal/services"
	"gorm.io/gorm"
)

// HardwareHandler exposes the hardware catalog and ledger. Response shapes
// and status codes are kept compatible with the original HaaS API:
// {success, message, hardware} envelopes and a bare array on list.
type HardwareHandler struct {
	hardwareService *services.HardwareService
}

func NewHardwareHandler(db *gorm.DB) *HardwareHandler {
	return &HardwareHandler{
		hardwareService: services.NewHardwareService(db),
	}
}

// List returns every hardware set with capacity and availability.
// GET /hardware?project_id=
func (h *HardwareHandler) List(c *gin.Context) {
	projectID := c.Query("project_id")

	views, err := h.hardwareService.ListAvailability(projectID)
	if err != nil {
		if errors.Is(err, models.ErrNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "DB not available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, views)
}

// Checkout reserves units of a hardware set for a project member.
// POST /hardware/checkout
func (h *HardwareHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Provide name, positive amount, project_id, and username",
		})
		return
	}

	view, err := h.hardwareService.Checkout(&req)
	if err != nil {
		ledgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf("Checked out %d from %s", req.Amount, req.Name),
		"hardware": view,
	})
}

// Checkin returns previously checked-out units.
// POST /hardware/checkin
func (h *HardwareHandler) Checkin(c *gin.Context) {
	var req services.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Provide name, positive amount, project_id, and username",
		})
		return
	}

	view, err := h.hardwareService.Checkin(&req)
	if err != nil {
		ledgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  fmt.Sprintf("Checked in %d units to %s", req.Amount, req.Name),
		"hardware": view,
	})
}

// ledgerError maps a service failure onto the legacy status codes:
// 400 for validation and balance failures, 403 for non-members, 404 for
// unknown sets/projects, 503 when the store is unreachable.
func ledgerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrCapacityExceeded),
		errors.Is(err, services.ErrInsufficientProjectUsage),
		errors.Is(err, services.ErrInsufficientUserUsage):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotAMember):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrHardwareNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
