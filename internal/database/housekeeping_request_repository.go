package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// HousekeepingRequestRepository handles live housekeeping requests
type HousekeepingRequestRepository struct {
	db sqlx.ExtContext
}

// NewHousekeepingRequestRepository creates a new housekeeping request repository
func NewHousekeepingRequestRepository(db sqlx.ExtContext) *HousekeepingRequestRepository {
	return &HousekeepingRequestRepository{db: db}
}

const requestColumns = `
	hr.id, hr.user_id, hr.room_id, hr.preferred_date, hr.preferred_time::text AS preferred_time,
	hr.service_type_id, hr.status, hr.assigned_to, hr.archived, hr.created_at`

// Create inserts a new request
func (r *HousekeepingRequestRepository) Create(ctx context.Context, req *models.HousekeepingRequest) error {
	query := `
		INSERT INTO housekeeping_requests (
			id, user_id, room_id, preferred_date, preferred_time,
			service_type_id, status, assigned_to, archived, created_at
		) VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8, FALSE, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.UserID,
		req.RoomID,
		dateArg(req.PreferredDate),
		req.PreferredTime,
		req.ServiceTypeID,
		req.Status,
		req.AssignedTo,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create housekeeping request: %w", err)
	}
	return nil
}

// GetByID retrieves a request, archived or not
func (r *HousekeepingRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HousekeepingRequest, error) {
	var req models.HousekeepingRequest
	query := `SELECT ` + requestColumns + ` FROM housekeeping_requests hr WHERE hr.id = $1`
	if err := sqlx.GetContext(ctx, r.db, &req, query, id); err != nil {
		return nil, notFound(err, "housekeeping request")
	}
	return &req, nil
}

// UpdateStatus sets the status of a live request
func (r *HousekeepingRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus) error {
	query := `UPDATE housekeeping_requests SET status = $1 WHERE id = $2 AND NOT archived`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	return requireAffected(result, "housekeeping request")
}

// Archive soft-deletes a completed request
func (r *HousekeepingRequestRepository) Archive(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE housekeeping_requests SET archived = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to archive request: %w", err)
	}
	return requireAffected(result, "housekeeping request")
}

// Delete removes a request that moved to service history
func (r *HousekeepingRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM housekeeping_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return requireAffected(result, "housekeeping request")
}

// ListCommittedSlots returns approved and in-progress assigned requests on date
func (r *HousekeepingRequestRepository) ListCommittedSlots(ctx context.Context, date time.Time) ([]models.CommittedSlot, error) {
	var slots []models.CommittedSlot
	query := `
		SELECT hr.assigned_to AS housekeeper_id, hr.preferred_time::text AS preferred_time, st.duration_minutes
		FROM housekeeping_requests hr
		JOIN service_types st ON st.id = hr.service_type_id
		WHERE hr.preferred_date = $1::date
			AND hr.status IN ('approved', 'in_progress')
			AND hr.assigned_to IS NOT NULL
			AND NOT hr.archived
	`
	if err := sqlx.SelectContext(ctx, r.db, &slots, query, dateArg(date)); err != nil {
		return nil, fmt.Errorf("failed to list committed requests: %w", err)
	}
	return slots, nil
}

// CountAssignedBetween counts approved and in-progress requests created in
// [start, end) per housekeeper
func (r *HousekeepingRequestRepository) CountAssignedBetween(ctx context.Context, housekeeperIDs []uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error) {
	if len(housekeeperIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}
	var rows []countRow
	query := `
		SELECT assigned_to AS id, COUNT(*) AS count
		FROM housekeeping_requests
		WHERE assigned_to = ANY($1::uuid[])
			AND status IN ('approved', 'in_progress')
			AND created_at >= $2 AND created_at < $3
		GROUP BY assigned_to
	`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, uuidArray(housekeeperIDs), start, end); err != nil {
		return nil, fmt.Errorf("failed to count assigned requests: %w", err)
	}
	return countsByID(rows), nil
}

// CountByGuestOn counts every request a guest made for date, archived included
func (r *HousekeepingRequestRepository) CountByGuestOn(ctx context.Context, guestID uuid.UUID, date time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM housekeeping_requests WHERE user_id = $1 AND preferred_date = $2::date`
	if err := sqlx.GetContext(ctx, r.db, &count, query, guestID, dateArg(date)); err != nil {
		return 0, fmt.Errorf("failed to count guest requests: %w", err)
	}
	return count, nil
}

// CountByGuest counts every request a guest ever made
func (r *HousekeepingRequestRepository) CountByGuest(ctx context.Context, guestID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM housekeeping_requests WHERE user_id = $1`, guestID); err != nil {
		return 0, fmt.Errorf("failed to count guest requests: %w", err)
	}
	return count, nil
}

// ListGuestSlots returns the guest's live requests on date
func (r *HousekeepingRequestRepository) ListGuestSlots(ctx context.Context, guestID uuid.UUID, date time.Time) ([]models.GuestSlot, error) {
	var slots []models.GuestSlot
	query := `
		SELECT hr.preferred_time::text AS preferred_time, st.duration_minutes
		FROM housekeeping_requests hr
		JOIN service_types st ON st.id = hr.service_type_id
		WHERE hr.user_id = $1 AND hr.preferred_date = $2::date AND NOT hr.archived
	`
	if err := sqlx.SelectContext(ctx, r.db, &slots, query, guestID, dateArg(date)); err != nil {
		return nil, fmt.Errorf("failed to list guest requests: %w", err)
	}
	return slots, nil
}

// ListByFacility lists live requests with their details. An empty facility lists all.
func (r *HousekeepingRequestRepository) ListByFacility(ctx context.Context, facility string) ([]models.HousekeepingRequestDetail, error) {
	var details []models.HousekeepingRequestDetail
	query := `
		SELECT ` + requestColumns + `,
			rm.facility, rm.room_number,
			TRIM(u.first_name || ' ' || u.last_name) AS requester_name,
			st.name AS service_type_name, st.duration_minutes,
			NULLIF(TRIM(COALESCE(hk.first_name, '') || ' ' || COALESCE(hk.last_name, '')), '') AS housekeeper_name
		FROM housekeeping_requests hr
		JOIN rooms rm ON rm.id = hr.room_id
		JOIN users u ON u.id = hr.user_id
		JOIN service_types st ON st.id = hr.service_type_id
		LEFT JOIN users hk ON hk.id = hr.assigned_to
		WHERE NOT hr.archived
			AND ($1 = '' OR lower(rm.facility) = $1)
		ORDER BY hr.preferred_date DESC, hr.preferred_time
	`
	if err := sqlx.SelectContext(ctx, r.db, &details, query, normalizeFacility(facility)); err != nil {
		return nil, fmt.Errorf("failed to list housekeeping requests: %w", err)
	}
	return details, nil
}

// ListTasks returns a housekeeper's approved and in-progress live requests on date
func (r *HousekeepingRequestRepository) ListTasks(ctx context.Context, housekeeperID uuid.UUID, date time.Time) ([]models.HousekeeperTask, error) {
	var tasks []models.HousekeeperTask
	query := `
		SELECT hr.id, 'request' AS source, hr.user_id AS guest_id, hr.assigned_to AS housekeeper_id,
			hr.room_id, rm.room_number, rm.facility,
			hr.service_type_id, st.name AS service_type_name, st.duration_minutes,
			hr.preferred_date, hr.preferred_time::text AS preferred_time, hr.status
		FROM housekeeping_requests hr
		JOIN rooms rm ON rm.id = hr.room_id
		JOIN service_types st ON st.id = hr.service_type_id
		WHERE hr.assigned_to = $1
			AND hr.preferred_date = $2::date
			AND hr.status IN ('approved', 'in_progress')
			AND NOT hr.archived
		ORDER BY hr.preferred_time
	`
	if err := sqlx.SelectContext(ctx, r.db, &tasks, query, housekeeperID, dateArg(date)); err != nil {
		return nil, fmt.Errorf("failed to list housekeeper tasks: %w", err)
	}
	return tasks, nil
}
