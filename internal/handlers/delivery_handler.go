package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// DeliveryAssigner picks a housekeeper to deliver a borrowed item
type DeliveryAssigner interface {
	Assign(ctx context.Context, actor models.Actor, itemID uuid.UUID) (*services.DeliveryAssignment, error)
}

// DeliveryHandler handles borrowed-item delivery assignment
type DeliveryHandler struct {
	deliveries DeliveryAssigner
	logger     *logrus.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveries DeliveryAssigner, logger *logrus.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveries: deliveries,
		logger:     logger,
	}
}

// AssignDelivery assigns the least-loaded housekeeper to deliver an item
// PUT /api/v1/borrowed-items/:id/assign-delivery
func (h *DeliveryHandler) AssignDelivery(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	itemID, ok := pathID(c, "item")
	if !ok {
		return
	}

	assignment, err := h.deliveries.Assign(c.Request.Context(), userCtx.Actor(), itemID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Delivery assigned",
		"assignment": assignment,
	})
}
