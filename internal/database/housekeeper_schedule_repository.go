package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// ScheduleRepository handles housekeeper schedules
type ScheduleRepository struct {
	db sqlx.ExtContext
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db sqlx.ExtContext) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Get retrieves the schedule of a housekeeper
func (r *ScheduleRepository) Get(ctx context.Context, housekeeperID uuid.UUID) (*models.HousekeeperSchedule, error) {
	var schedule models.HousekeeperSchedule
	query := `
		SELECT housekeeper_id, shift_time_in::text AS shift_time_in, shift_time_out::text AS shift_time_out,
			day_offs, updated_at
		FROM housekeeper_schedules
		WHERE housekeeper_id = $1
	`
	if err := sqlx.GetContext(ctx, r.db, &schedule, query, housekeeperID); err != nil {
		return nil, notFound(err, "schedule")
	}
	return &schedule, nil
}

// Upsert creates or replaces a housekeeper's schedule
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *models.HousekeeperSchedule) error {
	query := `
		INSERT INTO housekeeper_schedules (housekeeper_id, shift_time_in, shift_time_out, day_offs, updated_at)
		VALUES ($1, $2::time, $3::time, $4, NOW())
		ON CONFLICT (housekeeper_id) DO UPDATE SET
			shift_time_in = EXCLUDED.shift_time_in,
			shift_time_out = EXCLUDED.shift_time_out,
			day_offs = EXCLUDED.day_offs,
			updated_at = NOW()
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		schedule.HousekeeperID,
		schedule.ShiftTimeIn,
		schedule.ShiftTimeOut,
		pq.Array([]string(schedule.DayOffs)),
	).Scan(&schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}
