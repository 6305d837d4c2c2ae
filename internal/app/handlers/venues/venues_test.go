package venues

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "courtside/internal/app/outbox"
	domainbooking "courtside/internal/domain/booking"
	domainpayment "courtside/internal/domain/payment"
	domainreview "courtside/internal/domain/review"
	"courtside/internal/domain/shared/fault"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
	"courtside/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

func seedUsers(t *testing.T, factory memory.Factory) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []domainuser.CreateParams{
		{ID: "us-owner", FullName: "Dana Ortiz", Email: "dana@example.com", ContactNumber: "555-0100", Designation: domainuser.DesignationFacilities, PasswordHash: "x", Now: testNow},
		{ID: "us-player", FullName: "Alex Chen", Email: "alex@example.com", ContactNumber: "555-0101", Designation: domainuser.DesignationPlayer, PasswordHash: "x", Now: testNow},
	} {
		u, err := domainuser.New(p)
		require.NoError(t, err)
		require.NoError(t, factory.UserRepo.Save(ctx, u))
	}
}

func createCmd() CreateVenueCommand {
	return CreateVenueCommand{
		OwnerID:        "us-owner",
		CourtName:      "Riverside Courts",
		Address:        "12 Embankment Rd",
		Sports:         []string{"badminton", "tennis"},
		Amenities:      []string{"parking"},
		RateCents:      5000,
		Currency:       "USD",
		OperatingDays:  "Monday,Tuesday,Wednesday,Thursday,Friday",
		OperatingHours: "08:00-22:00",
	}
}

func newCreator(factory memory.Factory) *CreateVenueHandler {
	return &CreateVenueHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    appoutbox.JSONEventEncoder{},
		Now:        func() time.Time { return testNow },
	}
}

func TestCreateVenue(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()

	view, err := newCreator(factory).Handle(ctx, createCmd())
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Riverside Courts", view.CourtName)
	assert.Equal(t, int64(5000), view.RateCents)
	assert.Nil(t, view.Rating, "new venues have no rating")
	assert.Zero(t, view.TotalBookings)
}

func TestCreateVenueRequiresFacilitiesAccount(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)

	cmd := createCmd()
	cmd.OwnerID = "us-player"
	_, err := newCreator(factory).Handle(context.Background(), cmd)
	assert.Equal(t, fault.CodeForbidden, fault.CodeOf(err))
}

func TestCreateVenueValidation(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()
	h := newCreator(factory)

	cmd := createCmd()
	cmd.RateCents = 0
	_, err := h.Handle(ctx, cmd)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	cmd = createCmd()
	cmd.OperatingHours = "22:00-08:00"
	_, err = h.Handle(ctx, cmd)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	cmd = createCmd()
	cmd.OperatingDays = "Crunchday"
	_, err = h.Handle(ctx, cmd)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	cmd = createCmd()
	cmd.Sports = nil
	_, err = h.Handle(ctx, cmd)
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))
}

func TestUpdateVenue(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()

	view, err := newCreator(factory).Handle(ctx, createCmd())
	require.NoError(t, err)

	updater := &UpdateVenueHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    appoutbox.JSONEventEncoder{},
		Now:        func() time.Time { return testNow },
	}

	name := "Harbour Courts"
	rate := int64(6500)
	updated, err := updater.Handle(ctx, UpdateVenueCommand{
		VenueID:   view.ID,
		ActorID:   "us-owner",
		CourtName: &name,
		RateCents: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, "Harbour Courts", updated.CourtName)
	assert.Equal(t, int64(6500), updated.RateCents)
	assert.Equal(t, "12 Embankment Rd", updated.Address, "unset fields keep their value")

	_, err = updater.Handle(ctx, UpdateVenueCommand{VenueID: view.ID, ActorID: "us-player", CourtName: &name})
	assert.Equal(t, fault.CodeForbidden, fault.CodeOf(err))

	_, err = updater.Handle(ctx, UpdateVenueCommand{VenueID: "vn-none", ActorID: "us-owner", CourtName: &name})
	assert.Equal(t, fault.CodeNotFound, fault.CodeOf(err))
}

// staleVenueRepo forces a version conflict on save, as if another writer got
// in between the read and the write.
type staleVenueRepo struct {
	domainvenue.Repository
}

func (r staleVenueRepo) Save(context.Context, *domainvenue.Venue) error {
	return domainvenue.ErrVersionConflict
}

func TestUpdateVenueMapsVersionConflictToStaleState(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()

	view, err := newCreator(factory).Handle(ctx, createCmd())
	require.NoError(t, err)

	factory.VenueRepo = staleVenueRepo{Repository: factory.VenueRepo}
	updater := &UpdateVenueHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    appoutbox.JSONEventEncoder{},
		Now:        func() time.Time { return testNow },
	}

	name := "Harbour Courts"
	_, err = updater.Handle(ctx, UpdateVenueCommand{VenueID: view.ID, ActorID: "us-owner", CourtName: &name})
	assert.Equal(t, fault.CodeStaleState, fault.CodeOf(err))

	var flt *fault.Fault
	require.ErrorAs(t, err, &flt)
	assert.True(t, flt.Retryable())
}

func TestDeleteVenueCascades(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()

	view, err := newCreator(factory).Handle(ctx, createCmd())
	require.NoError(t, err)
	venueID := domainvenue.VenueID(view.ID)

	date, err := timeslot.ParseDate("2026-09-14")
	require.NoError(t, err)
	slot, err := timeslot.NewSlot(10*60, 2)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID: "bk-1", VenueID: venueID, PlayerID: "us-player",
		Date: date, Slot: slot, PayMethod: "card",
		HourlyRate: money.Must(5000, "USD"), Now: testNow,
	})
	require.NoError(t, err)
	b.Drain()
	require.NoError(t, factory.BookingRepo.Save(ctx, b))
	require.NoError(t, factory.PaymentRepo.Save(ctx, domainpayment.NewForBooking("pm-1", b, testNow)))

	r, err := domainreview.Submit(domainreview.SubmitParams{
		ID: "rv-1", VenueID: venueID, AuthorID: "us-player", Rating: 5, Now: testNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.ReviewRepo.Save(ctx, r))

	deleter := &DeleteVenueHandler{UoWFactory: factory}

	err = deleter.Handle(ctx, DeleteVenueCommand{VenueID: view.ID, ActorID: "us-player"})
	assert.Equal(t, fault.CodeForbidden, fault.CodeOf(err))

	require.NoError(t, deleter.Handle(ctx, DeleteVenueCommand{VenueID: view.ID, ActorID: "us-owner"}))

	_, err = factory.VenueRepo.ByID(ctx, venueID)
	assert.ErrorIs(t, err, domainvenue.ErrNotFound)
	_, err = factory.BookingRepo.ByID(ctx, "bk-1")
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
	_, err = factory.ReviewRepo.ByVenueAndAuthor(ctx, venueID, "us-player")
	assert.ErrorIs(t, err, domainreview.ErrNotFound)
	_, err = factory.PaymentRepo.ByBooking(ctx, "bk-1")
	assert.ErrorIs(t, err, domainpayment.ErrNotFound)
}

func TestSearchVenues(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()
	creator := newCreator(factory)

	_, err := creator.Handle(ctx, createCmd())
	require.NoError(t, err)

	squash := createCmd()
	squash.CourtName = "Hilltop Squash Centre"
	squash.Sports = []string{"squash"}
	squash.RateCents = 9000
	_, err = creator.Handle(ctx, squash)
	require.NoError(t, err)

	searcher := &SearchVenuesHandler{UoWFactory: factory}

	all, err := searcher.Search(ctx, SearchVenuesQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Venues, 2)

	bySport, err := searcher.Search(ctx, SearchVenuesQuery{Sport: "SQUASH"})
	require.NoError(t, err)
	require.Len(t, bySport.Venues, 1)
	assert.Equal(t, "Hilltop Squash Centre", bySport.Venues[0].CourtName)

	byRate, err := searcher.Search(ctx, SearchVenuesQuery{MaxRateCents: 6000})
	require.NoError(t, err)
	require.Len(t, byRate.Venues, 1)
	assert.Equal(t, "Riverside Courts", byRate.Venues[0].CourtName)

	byText, err := searcher.Search(ctx, SearchVenuesQuery{Query: "hilltop"})
	require.NoError(t, err)
	assert.Len(t, byText.Venues, 1)

	_, err = searcher.Search(ctx, SearchVenuesQuery{MinRateCents: -5})
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))

	_, err = searcher.Search(ctx, SearchVenuesQuery{MinRateCents: 9000, MaxRateCents: 100})
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))
}

type fakeUploader struct {
	lastKey string
}

func (f *fakeUploader) Upload(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.lastKey = key
	return "https://cdn.example.com/" + key, nil
}

func TestUploadPhoto(t *testing.T) {
	factory := memory.NewFactory()
	seedUsers(t, factory)
	ctx := context.Background()

	view, err := newCreator(factory).Handle(ctx, createCmd())
	require.NoError(t, err)

	up := &fakeUploader{}
	h := &UploadPhotoHandler{
		UoWFactory: factory,
		Uploader:   up,
		Now:        func() time.Time { return testNow },
	}

	res, err := h.Handle(ctx, UploadPhotoCommand{
		VenueID:     view.ID,
		ActorID:     "us-owner",
		ObjectKey:   view.ID + "/court.jpg",
		ContentType: "image/jpeg",
		Reader:      strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	require.Len(t, res.Photos, 1)
	assert.Equal(t, "https://cdn.example.com/"+view.ID+"/court.jpg", res.Photos[0])
	assert.Equal(t, view.ID+"/court.jpg", up.lastKey)

	_, err = h.Handle(ctx, UploadPhotoCommand{
		VenueID:   view.ID,
		ActorID:   "us-player",
		ObjectKey: "x.jpg",
		Reader:    strings.NewReader("jpeg-bytes"),
	})
	assert.Equal(t, fault.CodeForbidden, fault.CodeOf(err))
}
