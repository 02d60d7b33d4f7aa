package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Staff is an active housekeeper with the schedule data the engine needs.
type Staff struct {
	ID       uuid.UUID
	FullName string
	Shift    Shift
	DayOffs  []string
}

// Qualifies is the single availability predicate: not on a day off, slot inside
// the shift, and no overlapping commitment.
func Qualifies(s Staff, weekday time.Weekday, busy BusyMap, slot Interval) bool {
	if HasDayOff(s.DayOffs, weekday) {
		return false
	}
	if !s.Shift.Contains(slot) {
		return false
	}
	return !busy.IsBusy(s.ID, slot)
}

// Evaluate returns the staff members free for slot on the given weekday.
func Evaluate(staff []Staff, weekday time.Weekday, busy BusyMap, slot Interval) []Staff {
	available := make([]Staff, 0, len(staff))
	for _, s := range staff {
		if Qualifies(s, weekday, busy, slot) {
			available = append(available, s)
		}
	}
	return available
}

// SlotStarts lists every grid slot start for a service of durationMinutes.
// Slots never cross midnight.
func SlotStarts(durationMinutes int) []int {
	if durationMinutes <= 0 {
		return nil
	}
	starts := make([]int, 0, MinutesPerDay/durationMinutes)
	for start := 0; start+durationMinutes <= MinutesPerDay; start += durationMinutes {
		starts = append(starts, start)
	}
	return starts
}

// FitsInDay reports whether a slot starting at start ends by midnight.
func FitsInDay(start, durationMinutes int) bool {
	return start >= 0 && start+durationMinutes <= MinutesPerDay
}

// BuildGrid marks each slot start "HH:MM:SS" true when at least one staff
// member qualifies for it.
func BuildGrid(staff []Staff, weekday time.Weekday, busy BusyMap, durationMinutes int) map[string]bool {
	starts := SlotStarts(durationMinutes)
	grid := make(map[string]bool, len(starts))
	for _, start := range starts {
		slot := NewInterval(start, durationMinutes)
		open := false
		for _, s := range staff {
			if Qualifies(s, weekday, busy, slot) {
				open = true
				break
			}
		}
		grid[FormatClock(start)] = open
	}
	return grid
}
