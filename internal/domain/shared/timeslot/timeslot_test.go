package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, start, hours int) Slot {
	t.Helper()
	s, err := NewSlot(start, hours)
	require.NoError(t, err)
	return s
}

func TestSlotOverlaps(t *testing.T) {
	base := mustSlot(t, 10*60, 2) // 10:00-12:00

	cases := []struct {
		name  string
		other Slot
		want  bool
	}{
		{"ends exactly at start", mustSlot(t, 8*60, 2), false},
		{"starts exactly at end", mustSlot(t, 12*60, 2), false},
		{"well before", mustSlot(t, 6*60, 1), false},
		{"well after", mustSlot(t, 14*60, 3), false},
		{"partial overlap from left", mustSlot(t, 9*60, 2), true},
		{"partial overlap from right", mustSlot(t, 11*60, 2), true},
		{"fully inside", mustSlot(t, 10*60+30, 1), true},
		{"fully containing", mustSlot(t, 9*60, 4), true},
		{"identical", mustSlot(t, 10*60, 2), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestNewSlotValidation(t *testing.T) {
	_, err := NewSlot(-10, 1)
	assert.ErrorIs(t, err, ErrBadClock)

	_, err = NewSlot(10*60, 0)
	assert.ErrorIs(t, err, ErrBadDuration)

	_, err = NewSlot(10*60, -2)
	assert.ErrorIs(t, err, ErrBadDuration)

	_, err = NewSlot(23*60, 2)
	assert.ErrorIs(t, err, ErrPastMidnight)

	s, err := NewSlot(22*60, 2)
	require.NoError(t, err)
	assert.Equal(t, 24*60, s.End())
}

func TestParseDateAndClock(t *testing.T) {
	d, err := ParseDate("2026-09-14")
	require.NoError(t, err)
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, "2026-09-14", FormatDate(d))

	_, err = ParseDate("14/09/2026")
	assert.ErrorIs(t, err, ErrBadDate)

	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, m)
	assert.Equal(t, "09:30", FormatClock(m))

	_, err = ParseClock("9.30")
	assert.ErrorIs(t, err, ErrBadClock)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("08:00-22:00")
	require.NoError(t, err)
	assert.True(t, w.Contains(mustSlot(t, 8*60, 14)))
	assert.True(t, w.Contains(mustSlot(t, 8*60, 1)))
	assert.False(t, w.Contains(mustSlot(t, 7*60, 2)))
	assert.False(t, w.Contains(mustSlot(t, 21*60, 2)))

	_, err = ParseWindow("22:00-08:00")
	assert.ErrorIs(t, err, ErrBadWindow)

	_, err = ParseWindow("08:00")
	assert.ErrorIs(t, err, ErrBadWindow)
}

func TestParseDays(t *testing.T) {
	d, err := ParseDays("Monday, wednesday,FRIDAY")
	require.NoError(t, err)
	assert.True(t, d.Contains(time.Monday))
	assert.True(t, d.Contains(time.Wednesday))
	assert.True(t, d.Contains(time.Friday))
	assert.False(t, d.Contains(time.Sunday))

	_, err = ParseDays("Monday,Funday")
	assert.Error(t, err)

	assert.True(t, EveryDay.Contains(time.Saturday))
	assert.True(t, DaySet(0).IsEmpty())
}
