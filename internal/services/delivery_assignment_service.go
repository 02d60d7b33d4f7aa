package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/metrics"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
	"github.com/sirupsen/logrus"
)

// DeliveryAssignment is the outcome of assigning a borrowed-item delivery
type DeliveryAssignment struct {
	ItemID      uuid.UUID                  `json:"item_id"`
	Housekeeper models.AssignedHousekeeper `json:"housekeeper"`
	Status      models.DeliveryStatus      `json:"delivery_status"`
}

// DeliveryAssignmentService hands borrowed-item deliveries to housekeepers.
// Its load counter is separate from the request load counter.
type DeliveryAssignmentService struct {
	store    repository.Store
	notifier *NotificationService
	calendar *Calendar
	metrics  metrics.Recorder
	logger   *logrus.Logger
}

// NewDeliveryAssignmentService creates a new delivery assignment service
func NewDeliveryAssignmentService(
	store repository.Store,
	notifier *NotificationService,
	calendar *Calendar,
	recorder metrics.Recorder,
	logger *logrus.Logger,
) *DeliveryAssignmentService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &DeliveryAssignmentService{
		store:    store,
		notifier: notifier,
		calendar: calendar,
		metrics:  recorder,
		logger:   logger,
	}
}

// Assign picks the active housekeeper of the item's facility with the fewest
// open deliveries today and assigns the item to them
func (s *DeliveryAssignmentService) Assign(ctx context.Context, actor models.Actor, itemID uuid.UUID) (*DeliveryAssignment, error) {
	if !actor.Role.IsStaffAdmin() {
		return nil, forbiddenError(CodeRoleNotAllowed, "only admins can assign deliveries")
	}

	item, err := s.store.BorrowedItems().GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(CodeItemNotFound, "borrowed item not found")
		}
		return nil, internalError(err)
	}
	if actor.Role == models.RoleAdmin && !strings.EqualFold(strings.TrimSpace(actor.Facility), item.Facility) {
		return nil, forbiddenError(CodeCrossFacility, "item belongs to another facility")
	}
	if item.DeliveryStatus == models.DeliveryStatusDelivered {
		return nil, conflictError(CodeInvalidState, "item has already been delivered")
	}

	housekeepers, err := s.store.Users().ListActiveHousekeepers(ctx, item.Facility)
	if err != nil {
		return nil, internalError(err)
	}
	if len(housekeepers) == 0 {
		return nil, conflictError(CodeNoHousekeeper, "no active housekeeper in facility %s", item.Facility)
	}

	ids := make([]uuid.UUID, len(housekeepers))
	for i, h := range housekeepers {
		ids[i] = h.ID
	}
	start, end := s.calendar.TodayBounds()
	loads, err := s.store.BorrowedItems().CountDeliveriesBetween(ctx, ids, start, end)
	if err != nil {
		return nil, internalError(err)
	}

	candidates := make([]scheduling.Candidate, len(housekeepers))
	for i, h := range housekeepers {
		u := models.User{FirstName: h.FirstName, LastName: h.LastName}
		candidates[i] = scheduling.Candidate{ID: h.ID, FullName: u.FullName(), Load: loads[h.ID]}
	}
	selected, _ := scheduling.SelectFair(candidates)

	if err := s.store.BorrowedItems().AssignDelivery(ctx, item.ID, selected.ID); err != nil {
		s.logger.WithError(err).WithField("item_id", item.ID).Error("Failed to assign delivery")
		return nil, internalError(err)
	}

	s.metrics.DeliveryAssigned()
	s.logger.WithFields(logrus.Fields{
		"item_id":        item.ID,
		"housekeeper_id": selected.ID,
		"load":           selected.Load,
	}).Info("Delivery assigned")

	s.notifier.Notify(ctx, selected.ID, fmt.Sprintf("Deliver %d x %s to the guest's room.", item.Quantity, item.ItemName))

	return &DeliveryAssignment{
		ItemID:      item.ID,
		Housekeeper: models.AssignedHousekeeper{ID: selected.ID, FullName: selected.FullName},
		Status:      models.DeliveryStatusPending,
	}, nil
}
