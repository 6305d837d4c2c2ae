package booking

import (
	"context"
	"errors"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/fault"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type ListPlayerBookingsQuery struct {
	PlayerID string
	Status   string
}

type ListVenueBookingsQuery struct {
	VenueID string
	ActorID string
	Status  string
}

type ListBookingsResult struct {
	Bookings []domainbooking.Snapshot `json:"bookings"`
}

type ListBookingsHandler struct {
	UoWFactory uow.Factory
}

// HandlePlayer lists the player's own bookings, newest first as returned by
// the store, optionally filtered by status.
func (h *ListBookingsHandler) HandlePlayer(ctx context.Context, q ListPlayerBookingsQuery) (*ListBookingsResult, error) {
	if q.Status != "" && !domainbooking.ValidStatus(domainbooking.Status(q.Status)) {
		return nil, fault.Validation("unknown status %q", q.Status)
	}
	var result *ListBookingsResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		list, err := unit.Bookings().ListByPlayer(ctx, domainuser.UserID(q.PlayerID))
		if err != nil {
			return err
		}
		result = &ListBookingsResult{Bookings: snapshots(list, domainbooking.Status(q.Status))}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HandleVenue lists a venue's bookings for its owner.
func (h *ListBookingsHandler) HandleVenue(ctx context.Context, q ListVenueBookingsQuery) (*ListBookingsResult, error) {
	if q.Status != "" && !domainbooking.ValidStatus(domainbooking.Status(q.Status)) {
		return nil, fault.Validation("unknown status %q", q.Status)
	}
	var result *ListBookingsResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(q.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		if v.OwnerID != domainuser.UserID(q.ActorID) {
			return fault.Forbidden("only the venue owner may list its bookings")
		}
		list, err := unit.Bookings().ListByVenue(ctx, v.ID)
		if err != nil {
			return err
		}
		result = &ListBookingsResult{Bookings: snapshots(list, domainbooking.Status(q.Status))}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func snapshots(list []*domainbooking.Booking, status domainbooking.Status) []domainbooking.Snapshot {
	out := make([]domainbooking.Snapshot, 0, len(list))
	for _, b := range list {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b.Snapshot())
	}
	return out
}
