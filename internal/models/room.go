package models

import (
	"time"

	"github.com/google/uuid"
)

// Room status constants
const (
	RoomStatusAvailable = "available"
	RoomStatusOccupied  = "occupied"
	RoomStatusReserved  = "reserved"
)

// Room is a bookable room of a facility
type Room struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Facility   string    `json:"facility" db:"facility"`
	RoomNumber string    `json:"room_number" db:"room_number"`
	RoomType   string    `json:"room_type" db:"room_type"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RoomBooking is an active stay of a guest in a room
type RoomBooking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GuestID   uuid.UUID `json:"guest_id" db:"guest_id"`
	RoomID    uuid.UUID `json:"room_id" db:"room_id"`
	Facility  string    `json:"facility" db:"facility"`
	CheckIn   time.Time `json:"check_in" db:"check_in"`
	CheckOut  time.Time `json:"check_out" db:"check_out"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BookingHistory is a finished stay moved out of room_bookings by the checkout sweep
type BookingHistory struct {
	ID         uuid.UUID `json:"id" db:"id"`
	BookingID  uuid.UUID `json:"booking_id" db:"booking_id"`
	GuestID    uuid.UUID `json:"guest_id" db:"guest_id"`
	RoomID     uuid.UUID `json:"room_id" db:"room_id"`
	Facility   string    `json:"facility" db:"facility"`
	CheckIn    time.Time `json:"check_in" db:"check_in"`
	CheckOut   time.Time `json:"check_out" db:"check_out"`
	ArchivedAt time.Time `json:"archived_at" db:"archived_at"`
}
