package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ScheduleStore reads and writes housekeeper schedules
type ScheduleStore interface {
	Get(ctx context.Context, actor models.Actor, housekeeperID uuid.UUID) (*models.HousekeeperSchedule, error)
	Save(ctx context.Context, actor models.Actor, housekeeperID uuid.UUID, input models.UpsertScheduleRequest) (*models.HousekeeperSchedule, error)
}

// ScheduleHandler handles housekeeper schedule CRUD
type ScheduleHandler struct {
	schedules ScheduleStore
	logger    *logrus.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(schedules ScheduleStore, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		logger:    logger,
	}
}

// GetSchedule returns the housekeeper's schedule, or the default one
// GET /api/v1/housekeepers/:id/schedule
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	housekeeperID, ok := pathID(c, "housekeeper")
	if !ok {
		return
	}

	schedule, err := h.schedules.Get(c.Request.Context(), userCtx.Actor(), housekeeperID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// SaveSchedule creates or replaces the housekeeper's schedule
// POST /api/v1/housekeepers/:id/schedule
func (h *ScheduleHandler) SaveSchedule(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	housekeeperID, ok := pathID(c, "housekeeper")
	if !ok {
		return
	}

	var input models.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	schedule, err := h.schedules.Save(c.Request.Context(), userCtx.Actor(), housekeeperID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Schedule saved",
		"schedule": schedule,
	})
}
