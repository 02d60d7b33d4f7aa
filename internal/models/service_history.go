package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceHistory is the assigned-and-beyond record of a task. Admin manual
// assignment creates it as approved; completion leaves it completed.
type ServiceHistory struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	RequestID     uuid.UUID     `json:"request_id" db:"request_id"`
	GuestID       uuid.UUID     `json:"guest_id" db:"guest_id"`
	HousekeeperID uuid.UUID     `json:"housekeeper_id" db:"housekeeper_id"`
	RoomID        uuid.UUID     `json:"room_id" db:"room_id"`
	Facility      string        `json:"facility" db:"facility"`
	ServiceTypeID uuid.UUID     `json:"service_type_id" db:"service_type_id"`
	PreferredDate time.Time     `json:"preferred_date" db:"preferred_date"`
	PreferredTime string        `json:"preferred_time" db:"preferred_time"`
	Status        RequestStatus `json:"status" db:"status"`
	AssignedAt    time.Time     `json:"assigned_at" db:"assigned_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// NewServiceHistory mirrors a live request into a history row
func NewServiceHistory(req *HousekeepingRequest, housekeeperID uuid.UUID, facility string, status RequestStatus, now time.Time) *ServiceHistory {
	h := &ServiceHistory{
		ID:            uuid.New(),
		RequestID:     req.ID,
		GuestID:       req.UserID,
		HousekeeperID: housekeeperID,
		RoomID:        req.RoomID,
		Facility:      facility,
		ServiceTypeID: req.ServiceTypeID,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Status:        status,
		AssignedAt:    now,
	}
	if status == RequestStatusCompleted {
		h.CompletedAt = &now
	}
	return h
}

// HousekeeperTask is a task on a housekeeper's list, drawn from either the live
// request table or service history
type HousekeeperTask struct {
	ID              uuid.UUID     `json:"id" db:"id"` // origin request id
	Source          string        `json:"source" db:"source"`
	GuestID         uuid.UUID     `json:"guest_id" db:"guest_id"`
	HousekeeperID   uuid.UUID     `json:"housekeeper_id" db:"housekeeper_id"`
	RoomID          uuid.UUID     `json:"room_id" db:"room_id"`
	RoomNumber      string        `json:"room_number" db:"room_number"`
	Facility        string        `json:"facility" db:"facility"`
	ServiceTypeID   uuid.UUID     `json:"service_type_id" db:"service_type_id"`
	ServiceTypeName string        `json:"service_type" db:"service_type_name"`
	DurationMinutes int           `json:"duration_minutes" db:"duration_minutes"`
	PreferredDate   time.Time     `json:"preferred_date" db:"preferred_date"`
	PreferredTime   string        `json:"preferred_time" db:"preferred_time"`
	Status          RequestStatus `json:"status" db:"status"`
}

// Task sources
const (
	TaskSourceRequest = "request"
	TaskSourceHistory = "history"
)
