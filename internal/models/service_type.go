package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutServiceType is reserved for system-generated checkout cleaning and
// is never guest-selectable
const CheckoutServiceType = "Checkout"

// ServiceType is a named housekeeping task with a fixed duration, scoped per facility
type ServiceType struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Facility        string    `json:"facility" db:"facility"`
	Name            string    `json:"name" db:"name"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
