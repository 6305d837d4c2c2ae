package venues

import (
	"context"
	"errors"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	"courtside/internal/domain/shared/fault"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type DeleteVenueCommand struct {
	VenueID string
	ActorID string
}

// DeleteVenueHandler removes a venue with its dependent bookings, reviews
// and payment placeholders, all inside one unit of work.
type DeleteVenueHandler struct {
	UoWFactory uow.Factory
}

func (h *DeleteVenueHandler) Handle(ctx context.Context, cmd DeleteVenueCommand) error {
	return txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(cmd.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		if v.OwnerID != domainuser.UserID(cmd.ActorID) {
			return fault.Forbidden("only the venue owner may delete it")
		}

		bookings, err := unit.Bookings().ListByVenue(ctx, v.ID)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			if err := unit.Payments().DeleteByBooking(ctx, b.ID); err != nil {
				return err
			}
		}
		if err := unit.Bookings().DeleteByVenue(ctx, v.ID); err != nil {
			return err
		}
		if err := unit.Reviews().DeleteByVenue(ctx, v.ID); err != nil {
			return err
		}
		return unit.Venues().Delete(ctx, v.ID)
	})
}
