package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// RoomRepository handles room database operations
type RoomRepository struct {
	db sqlx.ExtContext
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db sqlx.ExtContext) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, facility, room_number, room_type, status, created_at`

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &room, query, id); err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (r *RoomRepository) getByNumber(ctx context.Context, facility, roomNumber string) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE lower(facility) = $1 AND room_number = $2`
	if err := sqlx.GetContext(ctx, r.db, &room, query, normalizeFacility(facility), roomNumber); err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

// GetOrCreate returns the facility's room with the given number, creating it
// on first use. Used for the per-facility staff office room.
func (r *RoomRepository) GetOrCreate(ctx context.Context, facility, roomNumber string) (*models.Room, error) {
	room, err := r.getByNumber(ctx, facility, roomNumber)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO rooms (id, facility, room_number, room_type, status, created_at)
		VALUES ($1, $2, $3, 'office', $4, NOW())
		ON CONFLICT (facility, room_number) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, uuid.New(), facility, roomNumber, models.RoomStatusAvailable); err != nil {
		return nil, fmt.Errorf("failed to create room %s: %w", roomNumber, err)
	}
	return r.getByNumber(ctx, facility, roomNumber)
}

// SetStatus updates a room's occupancy status
func (r *RoomRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE rooms SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	return requireAffected(result, "room")
}
