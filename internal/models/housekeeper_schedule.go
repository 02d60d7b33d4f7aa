package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
)

// HousekeeperSchedule is the shift window and weekly days off of one housekeeper.
// ShiftTimeIn > ShiftTimeOut encodes an overnight shift.
type HousekeeperSchedule struct {
	HousekeeperID uuid.UUID      `json:"housekeeper_id" db:"housekeeper_id"`
	ShiftTimeIn   string         `json:"shift_time_in" db:"shift_time_in"`   // TIME (HH:MM:SS)
	ShiftTimeOut  string         `json:"shift_time_out" db:"shift_time_out"` // TIME (HH:MM:SS)
	DayOffs       pq.StringArray `json:"day_offs" db:"day_offs"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// DefaultSchedule returns the schedule used until one is saved
func DefaultSchedule(housekeeperID uuid.UUID) *HousekeeperSchedule {
	return &HousekeeperSchedule{
		HousekeeperID: housekeeperID,
		ShiftTimeIn:   scheduling.FormatClock(scheduling.DefaultShiftIn),
		ShiftTimeOut:  scheduling.FormatClock(scheduling.DefaultShiftOut),
		DayOffs:       pq.StringArray{},
	}
}

// Shift converts the stored times into a scheduling.Shift
func (s *HousekeeperSchedule) Shift() (scheduling.Shift, error) {
	in, err := scheduling.ParseClock(s.ShiftTimeIn)
	if err != nil {
		return scheduling.Shift{}, fmt.Errorf("shift_time_in: %w", err)
	}
	out, err := scheduling.ParseClock(s.ShiftTimeOut)
	if err != nil {
		return scheduling.Shift{}, fmt.Errorf("shift_time_out: %w", err)
	}
	return scheduling.Shift{In: in, Out: out}, nil
}

// OnDutyHousekeeper is an active housekeeper joined with its (possibly default) schedule
type OnDutyHousekeeper struct {
	ID           uuid.UUID      `db:"id"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	ShiftTimeIn  string         `db:"shift_time_in"`
	ShiftTimeOut string         `db:"shift_time_out"`
	DayOffs      pq.StringArray `db:"day_offs"`
}

// ToStaff converts the row into the engine's staff representation
func (h OnDutyHousekeeper) ToStaff() (scheduling.Staff, error) {
	schedule := HousekeeperSchedule{ShiftTimeIn: h.ShiftTimeIn, ShiftTimeOut: h.ShiftTimeOut}
	shift, err := schedule.Shift()
	if err != nil {
		return scheduling.Staff{}, fmt.Errorf("housekeeper %s: %w", h.ID, err)
	}
	u := User{FirstName: h.FirstName, LastName: h.LastName}
	return scheduling.Staff{
		ID:       h.ID,
		FullName: u.FullName(),
		Shift:    shift,
		DayOffs:  []string(h.DayOffs),
	}, nil
}

// UpsertScheduleRequest is the body of POST /housekeepers/:id/schedule
type UpsertScheduleRequest struct {
	ShiftTimeIn  string   `json:"shift_time_in" binding:"required"`
	ShiftTimeOut string   `json:"shift_time_out" binding:"required"`
	DayOffs      []string `json:"day_offs"`
}
