package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// BorrowedItemRepository handles borrowed items and deliveries
type BorrowedItemRepository struct {
	db sqlx.ExtContext
}

// NewBorrowedItemRepository creates a new borrowed item repository
func NewBorrowedItemRepository(db sqlx.ExtContext) *BorrowedItemRepository {
	return &BorrowedItemRepository{db: db}
}

// GetByID retrieves a borrowed item
func (r *BorrowedItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BorrowedItem, error) {
	var item models.BorrowedItem
	query := `
		SELECT id, guest_id, room_id, facility, item_name, quantity, charge, is_paid,
			delivery_status, delivered_by, created_at
		FROM borrowed_items
		WHERE id = $1
	`
	if err := sqlx.GetContext(ctx, r.db, &item, query, id); err != nil {
		return nil, notFound(err, "borrowed item")
	}
	return &item, nil
}

// AssignDelivery hands an item to a housekeeper for delivery
func (r *BorrowedItemRepository) AssignDelivery(ctx context.Context, id, housekeeperID uuid.UUID) error {
	query := `UPDATE borrowed_items SET delivered_by = $1, delivery_status = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, housekeeperID, models.DeliveryStatusPending, id)
	if err != nil {
		return fmt.Errorf("failed to assign delivery: %w", err)
	}
	return requireAffected(result, "borrowed item")
}

// CountDeliveriesBetween counts pending and in-progress deliveries created in
// [start, end) per housekeeper
func (r *BorrowedItemRepository) CountDeliveriesBetween(ctx context.Context, housekeeperIDs []uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error) {
	if len(housekeeperIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}
	var rows []countRow
	query := `
		SELECT delivered_by AS id, COUNT(*) AS count
		FROM borrowed_items
		WHERE delivered_by = ANY($1::uuid[])
			AND delivery_status IN ('pending', 'in_progress')
			AND created_at >= $2 AND created_at < $3
		GROUP BY delivered_by
	`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, uuidArray(housekeeperIDs), start, end); err != nil {
		return nil, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return countsByID(rows), nil
}

// UnpaidBalance sums the unpaid charges of a guest's stay in a room
func (r *BorrowedItemRepository) UnpaidBalance(ctx context.Context, guestID, roomID uuid.UUID) (models.UnpaidBalance, error) {
	var balance models.UnpaidBalance
	query := `
		SELECT COUNT(*) AS items, COALESCE(SUM(charge), 0) AS total
		FROM borrowed_items
		WHERE guest_id = $1 AND room_id = $2 AND NOT is_paid
	`
	if err := sqlx.GetContext(ctx, r.db, &balance, query, guestID, roomID); err != nil {
		return models.UnpaidBalance{}, fmt.Errorf("failed to sum unpaid items: %w", err)
	}
	return balance, nil
}
