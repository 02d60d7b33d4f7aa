package services

import (
	"time"

	"github.com/roomcare/housekeeping-backend/internal/scheduling"
)

// Calendar defines the facility-local day used by every "today" rule
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar creates a calendar in loc. A nil now uses time.Now.
func NewCalendar(loc *time.Location, now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc, now: now}
}

// Location returns the facility time zone
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the facility zone
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns midnight of the current facility-local day
func (c *Calendar) Today() time.Time {
	return scheduling.Today(c.now(), c.loc)
}

// TodayBounds returns the [start, end) instants of today
func (c *Calendar) TodayBounds() (time.Time, time.Time) {
	return scheduling.DayBounds(c.Today(), c.loc)
}

// SlotStart returns the instant a task on date at minutes begins
func (c *Calendar) SlotStart(date time.Time, minutes int) time.Time {
	return scheduling.SlotStart(date, minutes, c.loc)
}
