package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus tracks a borrowed item on its way to the guest
type DeliveryStatus string

const (
	DeliveryStatusUnassigned DeliveryStatus = "unassigned"
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusInProgress DeliveryStatus = "in_progress"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
)

// BorrowedItem is an item a guest borrowed during a stay
type BorrowedItem struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	GuestID        uuid.UUID       `json:"guest_id" db:"guest_id"`
	RoomID         uuid.UUID       `json:"room_id" db:"room_id"`
	Facility       string          `json:"facility" db:"facility"`
	ItemName       string          `json:"item_name" db:"item_name"`
	Quantity       int             `json:"quantity" db:"quantity"`
	Charge         decimal.Decimal `json:"charge" db:"charge"`
	IsPaid         bool            `json:"is_paid" db:"is_paid"`
	DeliveryStatus DeliveryStatus  `json:"delivery_status" db:"delivery_status"`
	DeliveredBy    *uuid.UUID      `json:"delivered_by" db:"delivered_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// UnpaidBalance is the outstanding borrowed-item charge of one booking
type UnpaidBalance struct {
	Items int             `json:"items" db:"items"`
	Total decimal.Decimal `json:"total" db:"total"`
}

// HasBalance reports whether anything is still owed
func (b UnpaidBalance) HasBalance() bool {
	return b.Total.GreaterThan(decimal.Zero)
}
