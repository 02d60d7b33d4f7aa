// Package repository declares the persistence contracts consumed by services.
// internal/database provides the PostgreSQL implementation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// UserRepository reads accounts
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListActiveHousekeepers(ctx context.Context, facility string) ([]models.OnDutyHousekeeper, error)
	ListAdminIDs(ctx context.Context, facility string) ([]uuid.UUID, error)
	ClearFacility(ctx context.Context, userID uuid.UUID) error
}

// RoomRepository manages rooms
type RoomRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetOrCreate(ctx context.Context, facility, roomNumber string) (*models.Room, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// BookingRepository manages active stays and their history
type BookingRepository interface {
	GetActiveByGuest(ctx context.Context, guestID uuid.UUID) (*models.RoomBooking, error)
	ListExpired(ctx context.Context, now time.Time) ([]models.RoomBooking, error)
	MoveToHistory(ctx context.Context, booking *models.RoomBooking, archivedAt time.Time) error
}

// ServiceTypeRepository reads per-facility service types
type ServiceTypeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceType, error)
	GetByName(ctx context.Context, facility, name string) (*models.ServiceType, error)
	ListByFacility(ctx context.Context, facility string) ([]models.ServiceType, error)
}

// ScheduleRepository stores housekeeper shifts and day offs
type ScheduleRepository interface {
	Get(ctx context.Context, housekeeperID uuid.UUID) (*models.HousekeeperSchedule, error)
	Upsert(ctx context.Context, schedule *models.HousekeeperSchedule) error
}

// RequestRepository manages live housekeeping requests
type RequestRepository interface {
	Create(ctx context.Context, req *models.HousekeepingRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HousekeepingRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus) error
	Archive(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCommittedSlots(ctx context.Context, date time.Time) ([]models.CommittedSlot, error)
	CountAssignedBetween(ctx context.Context, housekeeperIDs []uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error)
	CountByGuestOn(ctx context.Context, guestID uuid.UUID, date time.Time) (int, error)
	CountByGuest(ctx context.Context, guestID uuid.UUID) (int, error)
	ListGuestSlots(ctx context.Context, guestID uuid.UUID, date time.Time) ([]models.GuestSlot, error)
	ListByFacility(ctx context.Context, facility string) ([]models.HousekeepingRequestDetail, error)
	ListTasks(ctx context.Context, housekeeperID uuid.UUID, date time.Time) ([]models.HousekeeperTask, error)
}

// HistoryRepository manages service history rows
type HistoryRepository interface {
	Create(ctx context.Context, h *models.ServiceHistory) error
	GetByRequestID(ctx context.Context, requestID uuid.UUID) (*models.ServiceHistory, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, completedAt *time.Time) error
	ListCommittedSlots(ctx context.Context, date time.Time) ([]models.CommittedSlot, error)
	// Detached rows are those whose origin request was deleted by manual assignment.
	CountDetachedByGuestOn(ctx context.Context, guestID uuid.UUID, date time.Time) (int, error)
	CountDetachedByGuest(ctx context.Context, guestID uuid.UUID) (int, error)
	ListGuestSlots(ctx context.Context, guestID uuid.UUID, date time.Time) ([]models.GuestSlot, error)
	ListTasks(ctx context.Context, housekeeperID uuid.UUID, date time.Time) ([]models.HousekeeperTask, error)
}

// NotificationRepository persists user notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

// BorrowedItemRepository manages borrowed items and their deliveries
type BorrowedItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.BorrowedItem, error)
	AssignDelivery(ctx context.Context, id, housekeeperID uuid.UUID) error
	CountDeliveriesBetween(ctx context.Context, housekeeperIDs []uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error)
	UnpaidBalance(ctx context.Context, guestID, roomID uuid.UUID) (models.UnpaidBalance, error)
}

// Repositories bundles every repository bound to one connection or transaction
type Repositories interface {
	Users() UserRepository
	Rooms() RoomRepository
	Bookings() BookingRepository
	ServiceTypes() ServiceTypeRepository
	Schedules() ScheduleRepository
	Requests() RequestRepository
	History() HistoryRepository
	Notifications() NotificationRepository
	BorrowedItems() BorrowedItemRepository
}

// Tx is the repository set of an open transaction
type Tx interface {
	Repositories
	// LockFacilityDay serializes writers of one facility's day until the transaction ends.
	LockFacilityDay(ctx context.Context, facility string, date time.Time) error
}

// Store is the entry point used by services
type Store interface {
	Repositories
	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}
