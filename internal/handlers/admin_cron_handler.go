package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// CronController exposes the scheduled jobs to admins
type CronController interface {
	RunCheckoutSweepNow(ctx context.Context) (*services.SweepResult, error)
	GetJobStatus() map[string]interface{}
}

// AdminCronHandler handles manual triggers and status of scheduled jobs
type AdminCronHandler struct {
	cron   CronController
	logger *logrus.Logger
}

// NewAdminCronHandler creates a new AdminCronHandler
func NewAdminCronHandler(cron CronController, logger *logrus.Logger) *AdminCronHandler {
	return &AdminCronHandler{
		cron:   cron,
		logger: logger,
	}
}

// RunCheckoutSweep archives expired paid bookings immediately
// POST /api/v1/admin/cron/checkout-sweep
func (h *AdminCronHandler) RunCheckoutSweep(c *gin.Context) {
	result, err := h.cron.RunCheckoutSweepNow(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout sweep finished",
		"result":  result,
	})
}

// GetStatus reports the registered jobs and the last sweep
// GET /api/v1/admin/cron/status
func (h *AdminCronHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cron.GetJobStatus())
}
