package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the account role carried in the token
type Role string

const (
	RoleGuest       Role = "guest"
	RoleHousekeeper Role = "housekeeper"
	RoleAdmin       Role = "admin"
	RoleSuperAdmin  Role = "superadmin"
)

// IsStaffAdmin reports whether the role manages a facility
func (r Role) IsStaffAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User account status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents any account: guest, housekeeper or admin
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	Facility  *string   `json:"facility,omitempty" db:"facility"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsActive reports whether the account is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// InFacility compares the user's facility case-insensitively
func (u *User) InFacility(facility string) bool {
	return u.Facility != nil && strings.EqualFold(*u.Facility, facility)
}

// Actor is the authenticated caller of an engine operation
type Actor struct {
	ID       uuid.UUID
	Role     Role
	Facility string
	Email    string
}
