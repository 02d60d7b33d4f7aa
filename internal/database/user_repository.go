package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db sqlx.ExtContext
}

// NewUserRepository creates a new user repository
func NewUserRepository(db sqlx.ExtContext) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, first_name, last_name, email, role, facility, status, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := sqlx.GetContext(ctx, r.db, &user, query, id); err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// ListActiveHousekeepers returns the facility's active housekeepers joined with
// their schedule. Housekeepers without a schedule get the default shift.
func (r *UserRepository) ListActiveHousekeepers(ctx context.Context, facility string) ([]models.OnDutyHousekeeper, error) {
	var housekeepers []models.OnDutyHousekeeper
	query := `
		SELECT u.id, u.first_name, u.last_name,
			COALESCE(s.shift_time_in, TIME '08:00')::text AS shift_time_in,
			COALESCE(s.shift_time_out, TIME '17:00')::text AS shift_time_out,
			COALESCE(s.day_offs, '{}') AS day_offs
		FROM users u
		LEFT JOIN housekeeper_schedules s ON s.housekeeper_id = u.id
		WHERE u.role = 'housekeeper'
			AND u.status = 'active'
			AND lower(u.facility) = $1
		ORDER BY u.id
	`
	if err := sqlx.SelectContext(ctx, r.db, &housekeepers, query, normalizeFacility(facility)); err != nil {
		return nil, fmt.Errorf("failed to list housekeepers: %w", err)
	}
	return housekeepers, nil
}

// ListAdminIDs returns the active admins of a facility
func (r *UserRepository) ListAdminIDs(ctx context.Context, facility string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT id FROM users
		WHERE role = 'admin' AND status = 'active' AND lower(facility) = $1
	`
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, normalizeFacility(facility)); err != nil {
		return nil, fmt.Errorf("failed to list facility admins: %w", err)
	}
	return ids, nil
}

// ClearFacility detaches a guest from its facility after checkout
func (r *UserRepository) ClearFacility(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET facility = NULL, updated_at = NOW() WHERE id = $1 AND role = 'guest'`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear guest facility: %w", err)
	}
	return nil
}
