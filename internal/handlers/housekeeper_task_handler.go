package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HousekeeperTaskHandler handles the housekeeper's own task list and transitions
type HousekeeperTaskHandler struct {
	requests RequestService
	logger   *logrus.Logger
}

// NewHousekeeperTaskHandler creates a new HousekeeperTaskHandler
func NewHousekeeperTaskHandler(requests RequestService, logger *logrus.Logger) *HousekeeperTaskHandler {
	return &HousekeeperTaskHandler{
		requests: requests,
		logger:   logger,
	}
}

// ListTasks returns today's approved and in-progress tasks of the caller
// GET /api/v1/housekeepers/tasks
func (h *HousekeeperTaskHandler) ListTasks(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	tasks, err := h.requests.ListHousekeeperTasks(c.Request.Context(), userCtx.Actor())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// Acknowledge starts work on a task
// PUT /api/v1/housekeepers/tasks/:id/acknowledge
func (h *HousekeeperTaskHandler) Acknowledge(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	result, err := h.requests.Acknowledge(c.Request.Context(), userCtx.Actor(), taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task acknowledged",
		"task":    result,
	})
}

// Complete finishes a task
// PUT /api/v1/housekeepers/tasks/:id/complete
func (h *HousekeeperTaskHandler) Complete(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	taskID, ok := pathID(c, "task")
	if !ok {
		return
	}

	result, err := h.requests.Complete(c.Request.Context(), userCtx.Actor(), taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task completed",
		"task":    result,
	})
}
