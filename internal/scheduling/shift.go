package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Default shift applied to housekeepers without a saved schedule.
const (
	DefaultShiftIn  = 8 * 60
	DefaultShiftOut = 17 * 60
)

// Shift is a daily on-duty window. In > Out encodes an overnight shift.
type Shift struct {
	In  int
	Out int
}

// DefaultShift returns the 08:00-17:00 shift.
func DefaultShift() Shift {
	return Shift{In: DefaultShiftIn, Out: DefaultShiftOut}
}

// Overnight reports whether the shift wraps past midnight.
func (s Shift) Overnight() bool {
	return s.In > s.Out
}

// Contains reports whether slot fits the shift. A normal shift needs the whole
// slot inside [In, Out]. An overnight shift accepts a slot that starts at or
// after In, or one that ends at or before Out.
func (s Shift) Contains(slot Interval) bool {
	if !s.Overnight() {
		return slot.Start >= s.In && slot.End <= s.Out
	}
	return slot.Start >= s.In || slot.End <= s.Out
}

// ParseWeekday parses a full English weekday name, case-insensitively.
func ParseWeekday(name string) (time.Weekday, error) {
	trimmed := strings.TrimSpace(name)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), trimmed) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}

// NormalizeDayOffs validates weekday names and returns them in canonical form,
// deduplicated, in week order.
func NormalizeDayOffs(names []string) ([]string, error) {
	seen := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		d, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		seen[d] = true
	}
	out := make([]string, 0, len(seen))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if seen[d] {
			out = append(out, d.String())
		}
	}
	return out, nil
}

// HasDayOff reports whether weekday is listed in dayOffs.
func HasDayOff(dayOffs []string, weekday time.Weekday) bool {
	for _, n := range dayOffs {
		if strings.EqualFold(strings.TrimSpace(n), weekday.String()) {
			return true
		}
	}
	return false
}
