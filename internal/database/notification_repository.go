package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/roomcare/housekeeping-backend/internal/models"
)

// NotificationRepository persists user notifications
type NotificationRepository struct {
	db sqlx.ExtContext
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db sqlx.ExtContext) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Message, n.IsRead, n.CreatedAt); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
