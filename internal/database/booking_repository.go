package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// BookingRepository handles room bookings and booking history
type BookingRepository struct {
	db sqlx.ExtContext
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db sqlx.ExtContext) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, guest_id, room_id, facility, check_in, check_out, created_at`

// GetActiveByGuest returns the guest's current stay
func (r *BookingRepository) GetActiveByGuest(ctx context.Context, guestID uuid.UUID) (*models.RoomBooking, error) {
	var booking models.RoomBooking
	query := `
		SELECT ` + bookingColumns + `
		FROM room_bookings
		WHERE guest_id = $1
		ORDER BY check_in DESC
		LIMIT 1
	`
	if err := sqlx.GetContext(ctx, r.db, &booking, query, guestID); err != nil {
		return nil, notFound(err, "room booking")
	}
	return &booking, nil
}

// ListExpired returns bookings whose check-out time has passed
func (r *BookingRepository) ListExpired(ctx context.Context, now time.Time) ([]models.RoomBooking, error) {
	var bookings []models.RoomBooking
	query := `
		SELECT ` + bookingColumns + `
		FROM room_bookings
		WHERE check_out <= $1
		ORDER BY check_out
	`
	if err := sqlx.SelectContext(ctx, r.db, &bookings, query, now); err != nil {
		return nil, fmt.Errorf("failed to list expired bookings: %w", err)
	}
	return bookings, nil
}

// MoveToHistory copies a booking into booking_history and deletes it. Running it
// twice for the same booking is a no-op.
func (r *BookingRepository) MoveToHistory(ctx context.Context, booking *models.RoomBooking, archivedAt time.Time) error {
	insert := `
		INSERT INTO booking_history (id, booking_id, guest_id, room_id, facility, check_in, check_out, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booking_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, insert,
		uuid.New(),
		booking.ID,
		booking.GuestID,
		booking.RoomID,
		booking.Facility,
		booking.CheckIn,
		booking.CheckOut,
		archivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive booking: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM room_bookings WHERE id = $1`, booking.ID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
