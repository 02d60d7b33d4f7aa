// Package scheduling holds the pure parts of the housekeeper assignment engine:
// time-of-day parsing, busy interval math, shift containment, the availability
// predicate shared by single-slot lookups and the full-day grid, and the fair
// selection rule.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of a facility-local day in minutes.
const MinutesPerDay = 24 * 60

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are validated and then dropped.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", value)
	}

	limits := []int{23, 59, 59}
	fields := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", value)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", value)
		}
		fields[i] = n
	}

	return fields[0]*60 + fields[1], nil
}

// FormatClock renders minutes since midnight as "HH:MM:SS". Values past
// midnight wrap around.
func FormatClock(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// Today returns the facility-local calendar day containing now, as midnight in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the [start, end) instants of the facility-local day of date.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar date, ignoring zones.
func SameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// ParseDate parses a "YYYY-MM-DD" date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return d, nil
}

// SlotStart combines a calendar date and a time of day into an instant in loc.
func SlotStart(date time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(minutes) * time.Minute)
}
