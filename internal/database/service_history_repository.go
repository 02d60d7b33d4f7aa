package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// ServiceHistoryRepository handles service history rows
type ServiceHistoryRepository struct {
	db sqlx.ExtContext
}

// NewServiceHistoryRepository creates a new service history repository
func NewServiceHistoryRepository(db sqlx.ExtContext) *ServiceHistoryRepository {
	return &ServiceHistoryRepository{db: db}
}

// Create inserts a history row
func (r *ServiceHistoryRepository) Create(ctx context.Context, h *models.ServiceHistory) error {
	query := `
		INSERT INTO service_history (
			id, request_id, guest_id, housekeeper_id, room_id, facility,
			service_type_id, preferred_date, preferred_time, status, assigned_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9::time, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.RequestID,
		h.GuestID,
		h.HousekeeperID,
		h.RoomID,
		h.Facility,
		h.ServiceTypeID,
		dateArg(h.PreferredDate),
		h.PreferredTime,
		h.Status,
		h.AssignedAt,
		h.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service history: %w", err)
	}
	return nil
}

// GetByRequestID retrieves the history row of an origin request
func (r *ServiceHistoryRepository) GetByRequestID(ctx context.Context, requestID uuid.UUID) (*models.ServiceHistory, error) {
	var h models.ServiceHistory
	query := `
		SELECT id, request_id, guest_id, housekeeper_id, room_id, facility, service_type_id,
			preferred_date, preferred_time::text AS preferred_time, status, assigned_at, completed_at
		FROM service_history
		WHERE request_id = $1
	`
	if err := sqlx.GetContext(ctx, r.db, &h, query, requestID); err != nil {
		return nil, notFound(err, "service history")
	}
	return &h, nil
}

// UpdateStatus sets the status of a history row
func (r *ServiceHistoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, completedAt *time.Time) error {
	query := `UPDATE service_history SET status = $1, completed_at = COALESCE($2, completed_at) WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update service history: %w", err)
	}
	return requireAffected(result, "service history")
}

// ListCommittedSlots returns approved and in-progress history rows on date
func (r *ServiceHistoryRepository) ListCommittedSlots(ctx context.Context, date time.Time) ([]models.CommittedSlot, error) {
	var slots []models.CommittedSlot
	query := `
		SELECT sh.housekeeper_id, sh.preferred_time::text AS preferred_time, st.duration_minutes
		FROM service_history sh
		JOIN service_types st ON st.id = sh.service_type_id
		WHERE sh.preferred_date = $1::date
			AND sh.status IN ('approved', 'in_progress')
	`
	if err := sqlx.SelectContext(ctx, r.db, &slots, query, dateArg(date)); err != nil {
		return nil, fmt.Errorf("failed to list committed history: %w", err)
	}
	return slots, nil
}

const detachedCondition = `NOT EXISTS (SELECT 1 FROM housekeeping_requests hr WHERE hr.id = sh.request_id)`

// CountDetachedByGuestOn counts history rows on date whose origin request was deleted
func (r *ServiceHistoryRepository) CountDetachedByGuestOn(ctx context.Context, guestID uuid.UUID, date time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM service_history sh
		WHERE sh.guest_id = $1 AND sh.preferred_date = $2::date AND ` + detachedCondition
	if err := sqlx.GetContext(ctx, r.db, &count, query, guestID, dateArg(date)); err != nil {
		return 0, fmt.Errorf("failed to count guest history: %w", err)
	}
	return count, nil
}

// CountDetachedByGuest counts all history rows whose origin request was deleted
func (r *ServiceHistoryRepository) CountDetachedByGuest(ctx context.Context, guestID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM service_history sh WHERE sh.guest_id = $1 AND ` + detachedCondition
	if err := sqlx.GetContext(ctx, r.db, &count, query, guestID); err != nil {
		return 0, fmt.Errorf("failed to count guest history: %w", err)
	}
	return count, nil
}

// ListGuestSlots returns the guest's approved and in-progress history rows on date
func (r *ServiceHistoryRepository) ListGuestSlots(ctx context.Context, guestID uuid.UUID, date time.Time) ([]models.GuestSlot, error) {
	var slots []models.GuestSlot
	query := `
		SELECT sh.preferred_time::text AS preferred_time, st.duration_minutes
		FROM service_history sh
		JOIN service_types st ON st.id = sh.service_type_id
		WHERE sh.guest_id = $1
			AND sh.preferred_date = $2::date
			AND sh.status IN ('approved', 'in_progress')
	`
	if err := sqlx.SelectContext(ctx, r.db, &slots, query, guestID, dateArg(date)); err != nil {
		return nil, fmt.Errorf("failed to list guest history: %w", err)
	}
	return slots, nil
}

// ListTasks returns a housekeeper's approved and in-progress history rows on date
func (r *ServiceHistoryRepository) ListTasks(ctx context.Context, housekeeperID uuid.UUID, date time.Time) ([]models.HousekeeperTask, error) {
	var tasks []models.HousekeeperTask
	query := `
		SELECT sh.request_id AS id, 'history' AS source, sh.guest_id, sh.housekeeper_id,
			sh.room_id, rm.room_number, sh.facility,
			sh.service_type_id, st.name AS service_type_name, st.duration_minutes,
			sh.preferred_date, sh.preferred_time::text AS preferred_time, sh.status
		FROM service_history sh
		JOIN rooms rm ON rm.id = sh.room_id
		JOIN service_types st ON st.id = sh.service_type_id
		WHERE sh.housekeeper_id = $1
			AND sh.preferred_date = $2::date
			AND sh.status IN ('approved', 'in_progress')
		ORDER BY sh.preferred_time
	`
	if err := sqlx.SelectContext(ctx, r.db, &tasks, query, housekeeperID, dateArg(date)); err != nil {
		return nil, fmt.Errorf("failed to list housekeeper history tasks: %w", err)
	}
	return tasks, nil
}
