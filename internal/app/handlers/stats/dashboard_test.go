package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/app/aggregates"
	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainvenue "courtside/internal/domain/venue"
	"courtside/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func seedVenue(t *testing.T, factory memory.Factory, id domainvenue.VenueID, name string) {
	t.Helper()
	hours, err := timeslot.ParseWindow("08:00-22:00")
	require.NoError(t, err)
	v, err := domainvenue.New(domainvenue.CreateParams{
		ID:             id,
		OwnerID:        "us-owner",
		CourtName:      name,
		Address:        "12 Embankment Rd",
		Sports:         []string{"badminton"},
		HourlyRate:     money.Must(5000, "USD"),
		OperatingDays:  timeslot.EveryDay,
		OperatingHours: hours,
		Now:            testNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.VenueRepo.Save(context.Background(), v))
}

func seedBooking(t *testing.T, factory memory.Factory, id string, venueID domainvenue.VenueID, start int, status domainbooking.Status) {
	t.Helper()
	date, err := timeslot.ParseDate("2026-09-14")
	require.NoError(t, err)
	slot, err := timeslot.NewSlot(start, 2)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(id),
		VenueID:    venueID,
		PlayerID:   "us-player",
		Date:       date,
		Slot:       slot,
		PayMethod:  "card",
		HourlyRate: money.Must(5000, "USD"),
		Now:        testNow,
	})
	require.NoError(t, err)
	b.Status = status
	b.Drain()
	require.NoError(t, factory.BookingRepo.Save(context.Background(), b))
}

func TestDashboard(t *testing.T) {
	factory := memory.NewFactory()
	ctx := context.Background()

	seedVenue(t, factory, "vn-1", "Riverside Courts")
	seedVenue(t, factory, "vn-2", "Hilltop Squash Centre")

	seedBooking(t, factory, "bk-1", "vn-1", 8*60, domainbooking.StatusConfirmed)
	seedBooking(t, factory, "bk-2", "vn-1", 10*60, domainbooking.StatusConfirmed)
	seedBooking(t, factory, "bk-3", "vn-1", 12*60, domainbooking.StatusPending)
	seedBooking(t, factory, "bk-4", "vn-2", 8*60, domainbooking.StatusPending)

	m := aggregates.NewMaintainer(factory, nil)
	require.NoError(t, m.RecomputeVenueStats(ctx, "vn-1"))
	require.NoError(t, m.RecomputeVenueStats(ctx, "vn-2"))

	h := &DashboardHandler{UoWFactory: factory}
	res, err := h.Handle(ctx, DashboardQuery{OwnerID: "us-owner"})
	require.NoError(t, err)

	require.Len(t, res.Venues, 2)
	assert.Equal(t, int64(2), res.TotalBookings, "pending bookings do not count toward totals")
	assert.Equal(t, int64(20000), res.TotalRevenueCents)
	assert.Equal(t, int64(2), res.PendingRequests)

	byID := map[string]VenueStats{}
	for _, vs := range res.Venues {
		byID[vs.VenueID] = vs
	}
	assert.Equal(t, int64(2), byID["vn-1"].TotalBookings)
	assert.Equal(t, int64(1), byID["vn-1"].PendingCount)
	assert.Equal(t, int64(0), byID["vn-2"].TotalBookings)
	assert.Equal(t, int64(1), byID["vn-2"].PendingCount)
}

func TestDashboardEmptyOwner(t *testing.T) {
	factory := memory.NewFactory()
	h := &DashboardHandler{UoWFactory: factory}

	res, err := h.Handle(context.Background(), DashboardQuery{OwnerID: "us-nobody"})
	require.NoError(t, err)
	assert.Empty(t, res.Venues)
	assert.Zero(t, res.TotalBookings)
}
