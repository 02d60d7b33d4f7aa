package scheduling

import (
	"github.com/google/uuid"
)

// Interval is a half-open [Start, End) range in minutes since midnight.
// End may exceed MinutesPerDay for work running past midnight.
type Interval struct {
	Start int `json:"start_minute"`
	End   int `json:"end_minute"`
}

// NewInterval builds the interval covered by a task of durationMinutes starting at start.
func NewInterval(start, durationMinutes int) Interval {
	return Interval{Start: start, End: start + durationMinutes}
}

// Overlaps is the strict overlap test: touching intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return other.Start < i.End && other.End > i.Start
}

// Commitment is one assigned task contributing to a housekeeper's busy set.
type Commitment struct {
	HousekeeperID   uuid.UUID
	StartMinute     int
	DurationMinutes int
}

// BusyMap groups committed intervals by housekeeper.
type BusyMap map[uuid.UUID][]Interval

// BuildBusyMap expands commitments into intervals keyed by housekeeper. Callers
// pass the union of live requests and history rows; duplicates are harmless.
func BuildBusyMap(commitments []Commitment) BusyMap {
	busy := make(BusyMap)
	for _, c := range commitments {
		if c.HousekeeperID == uuid.Nil {
			continue
		}
		busy[c.HousekeeperID] = append(busy[c.HousekeeperID], NewInterval(c.StartMinute, c.DurationMinutes))
	}
	return busy
}

// IsBusy reports whether the housekeeper has any interval overlapping slot.
func (b BusyMap) IsBusy(housekeeperID uuid.UUID, slot Interval) bool {
	for _, iv := range b[housekeeperID] {
		if slot.Overlaps(iv) {
			return true
		}
	}
	return false
}
