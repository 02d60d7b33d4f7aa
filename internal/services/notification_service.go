package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// Real-time events pushed to clients
const (
	EventNewRequest          = "newRequest"
	EventHousekeeperAssigned = "housekeeperAssigned"
	EventNewAssignment       = "newAssignment"
	EventNewNotification     = "newNotification"
)

// Broadcaster pushes an event to every client joined to room. Implementations
// must not block.
type Broadcaster interface {
	EmitToRoom(room, event string, payload interface{})
}

// NopBroadcaster discards all events
type NopBroadcaster struct{}

// EmitToRoom does nothing
func (NopBroadcaster) EmitToRoom(string, string, interface{}) {}

// FacilityRoom is the channel of everyone watching a facility
func FacilityRoom(facility string) string {
	return "facility:" + strings.ToLower(strings.TrimSpace(facility))
}

// UserRoom is the private channel of one user
func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// NotificationService persists notifications and pushes them in real time.
// Failures are logged and never returned.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	hub           Broadcaster
	calendar      *Calendar
	logger        *logrus.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	hub Broadcaster,
	calendar *Calendar,
	logger *logrus.Logger,
) *NotificationService {
	if hub == nil {
		hub = NopBroadcaster{}
	}
	return &NotificationService{
		notifications: notifications,
		users:         users,
		hub:           hub,
		calendar:      calendar,
		logger:        logger,
	}
}

// Notify stores a message for userID and emits newNotification to the user's room
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, message string) {
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		CreatedAt: s.calendar.Now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to store notification")
		return
	}
	s.hub.EmitToRoom(UserRoom(userID), EventNewNotification, n)
}

// NotifyFacilityAdmins notifies every active admin of facility
func (s *NotificationService) NotifyFacilityAdmins(ctx context.Context, facility, message string) {
	ids, err := s.users.ListAdminIDs(ctx, facility)
	if err != nil {
		s.logger.WithError(err).WithField("facility", facility).Warn("Failed to load facility admins")
		return
	}
	for _, id := range ids {
		s.Notify(ctx, id, message)
	}
}

// Emit pushes an event without persisting anything
func (s *NotificationService) Emit(room, event string, payload interface{}) {
	s.hub.EmitToRoom(room, event, payload)
}

func describeSlot(serviceType, preferredTime string) string {
	if len(preferredTime) >= 5 {
		preferredTime = preferredTime[:5]
	}
	return fmt.Sprintf("%s at %s", serviceType, preferredTime)
}
