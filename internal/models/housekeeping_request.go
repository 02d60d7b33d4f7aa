package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a housekeeping task
type RequestStatus string

// Housekeeping request status constants. Live requests hold pending, approved
// or in_progress; completed only appears in service history.
const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusApproved   RequestStatus = "approved"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
)

// IsCommitted reports whether a task with this status occupies its housekeeper
func (s RequestStatus) IsCommitted() bool {
	return s == RequestStatusApproved || s == RequestStatusInProgress
}

// RequestAction is an operation that moves a task between states
type RequestAction string

const (
	ActionAssign      RequestAction = "assign"
	ActionAcknowledge RequestAction = "acknowledge"
	ActionComplete    RequestAction = "complete"
)

var allowedTransitions = map[RequestAction]map[RequestStatus]RequestStatus{
	ActionAssign: {
		RequestStatusPending: RequestStatusApproved,
	},
	ActionAcknowledge: {
		RequestStatusApproved: RequestStatusInProgress,
	},
	ActionComplete: {
		RequestStatusApproved:   RequestStatusCompleted,
		RequestStatusInProgress: RequestStatusCompleted,
	},
}

// ValidTransition returns the status reached by applying action to a task in
// status from. ok is false when the action is not allowed from that status.
func ValidTransition(action RequestAction, from RequestStatus) (RequestStatus, bool) {
	targets, exists := allowedTransitions[action]
	if !exists {
		return "", false
	}
	to, ok := targets[from]
	return to, ok
}

// HousekeepingRequest is a live service request (table housekeeping_requests)
type HousekeepingRequest struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	RoomID        uuid.UUID     `json:"room_id" db:"room_id"`
	PreferredDate time.Time     `json:"preferred_date" db:"preferred_date"`
	PreferredTime string        `json:"preferred_time" db:"preferred_time"` // TIME (HH:MM:SS)
	ServiceTypeID uuid.UUID     `json:"service_type_id" db:"service_type_id"`
	Status        RequestStatus `json:"status" db:"status"`
	AssignedTo    *uuid.UUID    `json:"assigned_to" db:"assigned_to"`
	Archived      bool          `json:"archived" db:"archived"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// HousekeepingRequestDetail is a live request joined with room, requester,
// service type and assignee for list views
type HousekeepingRequestDetail struct {
	HousekeepingRequest
	Facility        string  `json:"facility" db:"facility"`
	RoomNumber      string  `json:"room_number" db:"room_number"`
	RequesterName   string  `json:"requester_name" db:"requester_name"`
	ServiceTypeName string  `json:"service_type" db:"service_type_name"`
	DurationMinutes int     `json:"duration_minutes" db:"duration_minutes"`
	HousekeeperName *string `json:"housekeeper_name,omitempty" db:"housekeeper_name"`
}

// CreateHousekeepingRequest is the body of POST /housekeeping-requests
type CreateHousekeepingRequest struct {
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time" binding:"required"`
	ServiceType   string `json:"service_type" binding:"required"`
	Facility      string `json:"facility"` // superadmin only
}

// AssignHousekeeperRequest is the body of PUT /housekeeping-requests/:id/assign
type AssignHousekeeperRequest struct {
	HousekeeperID string `json:"housekeeper_id" binding:"required"`
}

// CreateRequestResult is the outcome of request intake. A pending status means
// nobody was free and an admin has to assign manually.
type CreateRequestResult struct {
	Request     *HousekeepingRequest `json:"request"`
	Status      RequestStatus        `json:"status"`
	Housekeeper *AssignedHousekeeper `json:"housekeeper,omitempty"`
	Message     string               `json:"message"`
}

// AssignedHousekeeper identifies the housekeeper picked for a request
type AssignedHousekeeper struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// CommittedSlot is one approved or in-progress task occupying a housekeeper on a date
type CommittedSlot struct {
	HousekeeperID   uuid.UUID `db:"housekeeper_id"`
	PreferredTime   string    `db:"preferred_time"`
	DurationMinutes int       `db:"duration_minutes"`
}

// GuestSlot is a task the guest already holds today, used for the self-overlap guard
type GuestSlot struct {
	PreferredTime   string `db:"preferred_time"`
	DurationMinutes int    `db:"duration_minutes"`
}

// GuestRequestCounters is returned by the guest daily-cap endpoints
type GuestRequestCounters struct {
	Today     int `json:"today"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}
