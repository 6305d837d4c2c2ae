package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/app/locks"
	appoutbox "courtside/internal/app/outbox"
	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/fault"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
	"courtside/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	factory memory.Factory
	outbox  *memory.Outbox
	venue   *domainvenue.Venue
	owner   *domainuser.User
	player  *domainuser.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	factory := memory.NewFactory()

	owner, err := domainuser.New(domainuser.CreateParams{
		ID:            "us-owner",
		FullName:      "Dana Ortiz",
		Email:         "dana@example.com",
		ContactNumber: "555-0100",
		Designation:   domainuser.DesignationFacilities,
		PasswordHash:  "x",
		Now:           testNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.UserRepo.Save(ctx, owner))

	player, err := domainuser.New(domainuser.CreateParams{
		ID:            "us-player",
		FullName:      "Alex Chen",
		Email:         "alex@example.com",
		ContactNumber: "555-0101",
		Designation:   domainuser.DesignationPlayer,
		PasswordHash:  "x",
		Now:           testNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.UserRepo.Save(ctx, player))

	hours, err := timeslot.ParseWindow("08:00-22:00")
	require.NoError(t, err)
	v, err := domainvenue.New(domainvenue.CreateParams{
		ID:             "vn-1",
		OwnerID:        owner.ID,
		CourtName:      "Riverside Courts",
		Address:        "12 Embankment Rd",
		Sports:         []string{"badminton"},
		HourlyRate:     money.Must(5000, "USD"),
		OperatingDays:  timeslot.EveryDay,
		OperatingHours: hours,
		Now:            testNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.VenueRepo.Save(ctx, v))

	return &fixture{
		factory: factory,
		outbox:  memory.NewOutbox(),
		venue:   v,
		owner:   owner,
		player:  player,
	}
}

func (f *fixture) creator() *CreateBookingHandler {
	return &CreateBookingHandler{
		UoWFactory: f.factory,
		Locks:      locks.NewKeyed(time.Second),
		Outbox:     f.outbox,
		Encoder:    appoutbox.JSONEventEncoder{},
		Now:        func() time.Time { return testNow },
	}
}

func (f *fixture) createCmd() CreateBookingCommand {
	return CreateBookingCommand{
		VenueID:   string(f.venue.ID),
		PlayerID:  string(f.player.ID),
		Date:      "2026-09-14",
		StartTime: "10:00",
		Hours:     2,
		PayMethod: "card",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.creator().Handle(ctx, f.createCmd())
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusPending), res.Status)
	assert.Equal(t, int64(10000), res.AmountCents, "2h at $50.00/h, frozen at creation")
	assert.Equal(t, "USD", res.Currency)

	stored, err := f.factory.BookingRepo.ByID(ctx, domainbooking.BookingID(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, f.player.ID, stored.PlayerID)

	pay, err := f.factory.PaymentRepo.ByBooking(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), pay.Amount.Cents)

	pending := f.outbox.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, domainbooking.EventBookingCreated, pending[0].Name)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.creator()

	_, err := h.Handle(ctx, f.createCmd())
	require.NoError(t, err)

	overlapping := f.createCmd()
	overlapping.StartTime = "11:00"
	_, err = h.Handle(ctx, overlapping)
	assert.Equal(t, fault.CodeConflict, fault.CodeOf(err))

	adjacent := f.createCmd()
	adjacent.StartTime = "12:00"
	_, err = h.Handle(ctx, adjacent)
	assert.NoError(t, err, "back-to-back slots do not conflict")
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.creator()

	past := f.createCmd()
	past.Date = "2026-08-30"
	_, err := h.Handle(ctx, past)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	badDate := f.createCmd()
	badDate.Date = "14/09/2026"
	_, err = h.Handle(ctx, badDate)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	closed := f.createCmd()
	closed.StartTime = "06:00"
	_, err = h.Handle(ctx, closed)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	tooLate := f.createCmd()
	tooLate.StartTime = "21:00"
	tooLate.Hours = 2
	_, err = h.Handle(ctx, tooLate)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err), "slot running past closing time")

	missingVenue := f.createCmd()
	missingVenue.VenueID = "vn-none"
	_, err = h.Handle(ctx, missingVenue)
	assert.Equal(t, fault.CodeNotFound, fault.CodeOf(err))

	missingPlayer := f.createCmd()
	missingPlayer.PlayerID = "us-none"
	_, err = h.Handle(ctx, missingPlayer)
	assert.Equal(t, fault.CodeNotFound, fault.CodeOf(err))
}

func TestConcurrentCreatesGrantOneSlot(t *testing.T) {
	f := newFixture(t)
	h := f.creator()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.Handle(context.Background(), f.createCmd())
		}(i)
	}
	wg.Wait()

	var won, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case fault.CodeOf(err) == fault.CodeConflict:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one request wins the slot")
	assert.Equal(t, attempts-1, conflicted)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.creator().Handle(ctx, f.createCmd())
	require.NoError(t, err)

	checker := &CheckAvailabilityHandler{UoWFactory: f.factory}

	res, err := checker.Handle(ctx, CheckAvailabilityQuery{
		VenueID:   string(f.venue.ID),
		Date:      "2026-09-14",
		StartTime: "11:00",
		Hours:     1,
	})
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, "10:00", res.Conflict.StartTime)
	require.Len(t, res.Taken, 1)

	res, err = checker.Handle(ctx, CheckAvailabilityQuery{
		VenueID:   string(f.venue.ID),
		Date:      "2026-09-14",
		StartTime: "12:00",
		Hours:     2,
	})
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Nil(t, res.Conflict)
}
