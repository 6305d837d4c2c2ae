package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/fault"
)

func TestListPlayerBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	h := f.creator()

	first := f.createCmd()
	res1, err := h.Handle(ctx, first)
	require.NoError(t, err)

	second := f.createCmd()
	second.StartTime = "14:00"
	_, err = h.Handle(ctx, second)
	require.NoError(t, err)

	lists := &ListBookingsHandler{UoWFactory: f.factory}

	all, err := lists.HandlePlayer(ctx, ListPlayerBookingsQuery{PlayerID: string(f.player.ID)})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	_, err = f.transitioner(&statsSpy{}).Handle(ctx, TransitionStatusCommand{
		BookingID: res1.BookingID,
		ActorID:   string(f.owner.ID),
		Next:      string(domainbooking.StatusConfirmed),
	})
	require.NoError(t, err)

	confirmed, err := lists.HandlePlayer(ctx, ListPlayerBookingsQuery{
		PlayerID: string(f.player.ID),
		Status:   string(domainbooking.StatusConfirmed),
	})
	require.NoError(t, err)
	require.Len(t, confirmed.Bookings, 1)
	assert.Equal(t, res1.BookingID, string(confirmed.Bookings[0].ID))

	_, err = lists.HandlePlayer(ctx, ListPlayerBookingsQuery{PlayerID: string(f.player.ID), Status: "paused"})
	assert.Equal(t, fault.CodeValidation, fault.CodeOf(err))
}

func TestListVenueBookingsOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.creator().Handle(ctx, f.createCmd())
	require.NoError(t, err)

	lists := &ListBookingsHandler{UoWFactory: f.factory}

	res, err := lists.HandleVenue(ctx, ListVenueBookingsQuery{
		VenueID: string(f.venue.ID),
		ActorID: string(f.owner.ID),
	})
	require.NoError(t, err)
	assert.Len(t, res.Bookings, 1)

	_, err = lists.HandleVenue(ctx, ListVenueBookingsQuery{
		VenueID: string(f.venue.ID),
		ActorID: string(f.player.ID),
	})
	assert.Equal(t, fault.CodeForbidden, fault.CodeOf(err))

	_, err = lists.HandleVenue(ctx, ListVenueBookingsQuery{VenueID: "vn-none", ActorID: string(f.owner.ID)})
	assert.Equal(t, fault.CodeNotFound, fault.CodeOf(err))
}
