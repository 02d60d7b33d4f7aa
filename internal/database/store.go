package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
)

// repositories binds every repository to one sqlx executor (the pool or a tx)
type repositories struct {
	users         *UserRepository
	rooms         *RoomRepository
	bookings      *BookingRepository
	serviceTypes  *ServiceTypeRepository
	schedules     *ScheduleRepository
	requests      *HousekeepingRequestRepository
	history       *ServiceHistoryRepository
	notifications *NotificationRepository
	borrowedItems *BorrowedItemRepository
}

func newRepositories(db sqlx.ExtContext) repositories {
	return repositories{
		users:         NewUserRepository(db),
		rooms:         NewRoomRepository(db),
		bookings:      NewBookingRepository(db),
		serviceTypes:  NewServiceTypeRepository(db),
		schedules:     NewScheduleRepository(db),
		requests:      NewHousekeepingRequestRepository(db),
		history:       NewServiceHistoryRepository(db),
		notifications: NewNotificationRepository(db),
		borrowedItems: NewBorrowedItemRepository(db),
	}
}

func (r repositories) Users() repository.UserRepository { return r.users }
func (r repositories) Rooms() repository.RoomRepository { return r.rooms }
func (r repositories) Bookings() repository.BookingRepository { return r.bookings }
func (r repositories) ServiceTypes() repository.ServiceTypeRepository { return r.serviceTypes }
func (r repositories) Schedules() repository.ScheduleRepository { return r.schedules }
func (r repositories) Requests() repository.RequestRepository { return r.requests }
func (r repositories) History() repository.HistoryRepository { return r.history }
func (r repositories) Notifications() repository.NotificationRepository { return r.notifications }
func (r repositories) BorrowedItems() repository.BorrowedItemRepository { return r.borrowedItems }

// Store implements repository.Store on PostgreSQL
type Store struct {
	repositories
	db DB
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a store over db
func NewStore(db DB) *Store {
	return &Store{repositories: newRepositories(db), db: db}
}

// WithTx runs fn inside a transaction
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txRepositories{repositories: newRepositories(tx), tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type txRepositories struct {
	repositories
	tx *sqlx.Tx
}

// LockFacilityDay takes a transaction-scoped advisory lock on facility|date
func (t *txRepositories) LockFacilityDay(ctx context.Context, facility string, date time.Time) error {
	key := facilityDayKey(facility, date)
	if _, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}
	return nil
}

func facilityDayKey(facility string, date time.Time) string {
	return normalizeFacility(facility) + "|" + date.Format(scheduling.DateLayout)
}
