package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, v string) int {
	t.Helper()
	m, err := ParseClock(v)
	require.NoError(t, err)
	return m
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"09:15:00", 555, false},
		{"00:00", 0, false},
		{"23:59:59", 1439, false},
		{" 08:30 ", 510, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"09:00:61", 0, true},
		{"nine", 0, true},
		{"", 0, true},
		{"09:00:00:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "09:30:00", FormatClock(570))
	assert.Equal(t, "00:15:00", FormatClock(1455))
}

func TestToday_UsesFacilityZone(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	// 20:00 UTC on Oct 15 is already Oct 16 in Manila.
	now := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	today := Today(now, manila)
	assert.Equal(t, "2026-10-16", today.Format(DateLayout))

	start, end := DayBounds(today, manila)
	assert.True(t, now.After(start) || now.Equal(start))
	assert.True(t, now.Before(end))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestIntervalOverlaps(t *testing.T) {
	base := NewInterval(540, 30) // 09:00-09:30

	assert.True(t, base.Overlaps(NewInterval(555, 30)), "09:15 overlaps 09:00-09:30")
	assert.True(t, base.Overlaps(NewInterval(530, 30)), "08:50 overlaps 09:00-09:30")
	assert.False(t, base.Overlaps(NewInterval(570, 30)), "09:30 touches but does not overlap")
	assert.False(t, base.Overlaps(NewInterval(510, 30)), "08:30-09:00 touches but does not overlap")
}

func TestBuildBusyMap(t *testing.T) {
	h1, h2 := uuid.New(), uuid.New()
	busy := BuildBusyMap([]Commitment{
		{HousekeeperID: h1, StartMinute: 540, DurationMinutes: 30},
		{HousekeeperID: h1, StartMinute: 600, DurationMinutes: 60},
		{HousekeeperID: h2, StartMinute: 1430, DurationMinutes: 30},
		{HousekeeperID: uuid.Nil, StartMinute: 0, DurationMinutes: 30},
	})

	require.Len(t, busy, 2)
	assert.Equal(t, []Interval{{540, 570}, {600, 660}}, busy[h1])
	assert.Equal(t, []Interval{{1430, 1460}}, busy[h2], "intervals are not clamped at midnight")
	assert.True(t, busy.IsBusy(h1, NewInterval(555, 30)))
	assert.False(t, busy.IsBusy(h1, NewInterval(570, 30)))
	assert.False(t, busy.IsBusy(uuid.New(), NewInterval(540, 30)))
}

func TestShiftContains_NormalShiftBoundaries(t *testing.T) {
	shift := Shift{In: mustClock(t, "08:00"), Out: mustClock(t, "17:00")}

	assert.True(t, shift.Contains(NewInterval(mustClock(t, "08:00"), 30)), "start at shift_in accepted")
	assert.True(t, shift.Contains(NewInterval(mustClock(t, "16:30"), 30)), "end exactly at shift_out accepted")
	assert.False(t, shift.Contains(NewInterval(mustClock(t, "16:45"), 30)), "end past shift_out rejected")
	assert.False(t, shift.Contains(NewInterval(mustClock(t, "07:45"), 30)), "start before shift_in rejected")
}

func TestShiftContains_Overnight(t *testing.T) {
	shift := Shift{In: mustClock(t, "22:00"), Out: mustClock(t, "06:00")}
	require.True(t, shift.Overnight())

	assert.True(t, shift.Contains(NewInterval(mustClock(t, "23:00"), 30)))
	assert.True(t, shift.Contains(NewInterval(mustClock(t, "01:00"), 30)))
	assert.True(t, shift.Contains(NewInterval(mustClock(t, "05:30"), 30)))
	assert.False(t, shift.Contains(NewInterval(mustClock(t, "12:00"), 30)))
	assert.False(t, shift.Contains(NewInterval(mustClock(t, "05:45"), 30)))
}

func TestDayOffs(t *testing.T) {
	days, err := NormalizeDayOffs([]string{"sunday", "Monday", "MONDAY"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunday", "Monday"}, days)

	_, err = NormalizeDayOffs([]string{"Funday"})
	assert.Error(t, err)

	assert.True(t, HasDayOff([]string{"Friday"}, time.Friday))
	assert.False(t, HasDayOff([]string{"Friday"}, time.Saturday))
}

func TestSelectFair(t *testing.T) {
	alice := Candidate{ID: uuid.New(), FullName: "alice Reyes", Load: 1}
	bob := Candidate{ID: uuid.New(), FullName: "Bob Cruz", Load: 1}
	carl := Candidate{ID: uuid.New(), FullName: "Carl Diaz", Load: 0}

	t.Run("lowest load wins", func(t *testing.T) {
		got, ok := SelectFair([]Candidate{alice, bob, carl})
		require.True(t, ok)
		assert.Equal(t, carl.ID, got.ID)
	})

	t.Run("ties broken case-insensitively by name", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			got, ok := SelectFair([]Candidate{bob, alice})
			require.True(t, ok)
			assert.Equal(t, alice.ID, got.ID)
		}
	})

	t.Run("empty is not an error", func(t *testing.T) {
		_, ok := SelectFair(nil)
		assert.False(t, ok)
	})

	t.Run("input order is untouched", func(t *testing.T) {
		in := []Candidate{bob, alice}
		SelectFair(in)
		assert.Equal(t, bob.ID, in[0].ID)
	})
}

func TestSlotStarts(t *testing.T) {
	starts := SlotStarts(30)
	assert.Len(t, starts, 48)
	assert.Equal(t, 0, starts[0])
	assert.Equal(t, 1410, starts[len(starts)-1])

	starts = SlotStarts(100)
	assert.Len(t, starts, 14)
	assert.Equal(t, 1300, starts[len(starts)-1], "the 1400 slot would end past midnight")

	assert.Nil(t, SlotStarts(0))
	assert.True(t, FitsInDay(1410, 30))
	assert.False(t, FitsInDay(1420, 30))
}

func TestBuildGrid_MatchesEvaluate(t *testing.T) {
	dayShift := Staff{ID: uuid.New(), FullName: "Day", Shift: DefaultShift()}
	nightShift := Staff{ID: uuid.New(), FullName: "Night", Shift: Shift{In: 22 * 60, Out: 6 * 60}}
	off := Staff{ID: uuid.New(), FullName: "Off", Shift: DefaultShift(), DayOffs: []string{"Friday"}}
	staff := []Staff{dayShift, nightShift, off}

	busy := BuildBusyMap([]Commitment{
		{HousekeeperID: dayShift.ID, StartMinute: 9 * 60, DurationMinutes: 30},
		{HousekeeperID: nightShift.ID, StartMinute: 23 * 60, DurationMinutes: 60},
	})

	for _, weekday := range []time.Weekday{time.Thursday, time.Friday} {
		grid := BuildGrid(staff, weekday, busy, 30)
		require.Len(t, grid, 48)
		for _, start := range SlotStarts(30) {
			slot := NewInterval(start, 30)
			want := len(Evaluate(staff, weekday, busy, slot)) > 0
			assert.Equal(t, want, grid[FormatClock(start)], "slot %s on %s", FormatClock(start), weekday)
		}
	}

	friday := BuildGrid(staff, time.Friday, busy, 30)
	assert.False(t, friday["09:00:00"], "day shift busy and the other day housekeeper is off")
	assert.True(t, friday["09:30:00"])
	assert.True(t, friday["12:00:00"], "day shift free at noon")
	assert.True(t, friday["01:00:00"], "night shift covers after midnight")
	assert.False(t, friday["23:30:00"], "night shift busy until 24:00")
	assert.False(t, friday["20:00:00"])
}
