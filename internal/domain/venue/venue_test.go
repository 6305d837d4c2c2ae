package venue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func newTestVenue(t *testing.T) *Venue {
	t.Helper()
	days, err := timeslot.ParseDays("Monday,Tuesday,Wednesday,Thursday,Friday")
	require.NoError(t, err)
	hours, err := timeslot.ParseWindow("08:00-22:00")
	require.NoError(t, err)
	v, err := New(CreateParams{
		ID:             "vn-1",
		OwnerID:        "us-owner",
		CourtName:      "Riverside Courts",
		Address:        "12 Embankment Rd",
		Sports:         []string{"badminton", "tennis"},
		HourlyRate:     money.Must(5000, "USD"),
		OperatingDays:  days,
		OperatingHours: hours,
		Now:            testNow,
	})
	require.NoError(t, err)
	return v
}

func TestNewValidation(t *testing.T) {
	days := timeslot.EveryDay
	hours, _ := timeslot.ParseWindow("08:00-22:00")
	base := CreateParams{
		ID:             "vn-1",
		OwnerID:        "us-owner",
		CourtName:      "Riverside Courts",
		Address:        "12 Embankment Rd",
		Sports:         []string{"badminton"},
		HourlyRate:     money.Must(5000, "USD"),
		OperatingDays:  days,
		OperatingHours: hours,
		Now:            testNow,
	}

	p := base
	p.CourtName = "  "
	_, err := New(p)
	assert.ErrorIs(t, err, ErrMissingField)

	p = base
	p.Sports = nil
	_, err = New(p)
	assert.ErrorIs(t, err, ErrMissingField)

	p = base
	p.HourlyRate = money.Money{Currency: "USD"}
	_, err = New(p)
	assert.ErrorIs(t, err, ErrInvalidRate)

	p = base
	p.OperatingDays = 0
	_, err = New(p)
	assert.ErrorIs(t, err, ErrNoOperatingDay)
}

func TestOpenFor(t *testing.T) {
	v := newTestVenue(t)

	monday, _ := timeslot.ParseDate("2026-09-14")
	sunday, _ := timeslot.ParseDate("2026-09-13")
	inHours, _ := timeslot.NewSlot(10*60, 2)
	tooEarly, _ := timeslot.NewSlot(7*60, 2)
	runsPastClose, _ := timeslot.NewSlot(21*60, 2)

	assert.True(t, v.OpenFor(monday, inHours))
	assert.False(t, v.OpenFor(sunday, inHours), "closed weekday")
	assert.False(t, v.OpenFor(monday, tooEarly))
	assert.False(t, v.OpenFor(monday, runsPastClose), "slot must end by closing time")
}

func TestApplyRatingRoundsToOneDecimal(t *testing.T) {
	v := newTestVenue(t)
	require.Nil(t, v.Rating)

	avg := 4.433333
	v.ApplyRating(&avg, testNow)
	require.NotNil(t, v.Rating)
	assert.Equal(t, 4.4, *v.Rating)

	avg = 4.56
	v.ApplyRating(&avg, testNow)
	assert.Equal(t, 4.6, *v.Rating)

	v.ApplyRating(nil, testNow)
	assert.Nil(t, v.Rating, "no reviews clears the rating")
}

func TestUpdatePartialEdits(t *testing.T) {
	v := newTestVenue(t)
	name := "Harbour Courts"
	rate := money.Must(6500, "USD")

	require.NoError(t, v.Update(UpdateParams{CourtName: &name, HourlyRate: &rate}, testNow))
	assert.Equal(t, "Harbour Courts", v.CourtName)
	assert.Equal(t, int64(6500), v.HourlyRate.Cents)
	assert.Equal(t, "12 Embankment Rd", v.Address, "untouched fields survive")

	empty := " "
	err := v.Update(UpdateParams{Address: &empty}, testNow)
	assert.ErrorIs(t, err, ErrMissingField)

	events := v.Drain()
	require.Len(t, events, 1, "only the successful update records an event")
	assert.Equal(t, EventVenueUpdated, events[0].EventName())
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.5, RoundRating(4.5))
	assert.Equal(t, 4.3, RoundRating(4.25))
	assert.Equal(t, 3.7, RoundRating(11.0/3.0))
	assert.Equal(t, 5.0, RoundRating(5.0))
}
