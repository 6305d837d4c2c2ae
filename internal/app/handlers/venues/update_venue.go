package venues

import (
	"context"
	"errors"
	"time"

	"courtside/internal/app/notify"
	"courtside/internal/app/outbox"
	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	"courtside/internal/domain/shared/fault"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

// UpdateVenueCommand carries partial edits; nil fields are left unchanged.
type UpdateVenueCommand struct {
	VenueID        string
	ActorID        string
	CourtName      *string
	Address        *string
	Sports         []string
	Amenities      []string
	RateCents      *int64
	Currency       string
	OperatingDays  *string
	OperatingHours *string
}

type UpdateVenueHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Emitter    notify.Emitter
	Now        func() time.Time
}

func (h *UpdateVenueHandler) Handle(ctx context.Context, cmd UpdateVenueCommand) (*VenueView, error) {
	now := h.now()

	var view *VenueView
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(cmd.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		if v.OwnerID != domainuser.UserID(cmd.ActorID) {
			return fault.Forbidden("only the venue owner may edit it")
		}

		params := domainvenue.UpdateParams{
			CourtName: cmd.CourtName,
			Address:   cmd.Address,
			Sports:    cmd.Sports,
			Amenities: cmd.Amenities,
		}
		if cmd.RateCents != nil {
			currency := cmd.Currency
			if currency == "" {
				currency = v.HourlyRate.Currency
			}
			rate, err := money.New(*cmd.RateCents, currency)
			if err != nil {
				return fault.Wrap(fault.CodeValidation, "invalid hourly rate", err)
			}
			params.HourlyRate = &rate
		}
		if cmd.OperatingDays != nil {
			days, err := timeslot.ParseDays(*cmd.OperatingDays)
			if err != nil {
				return fault.Wrap(fault.CodeValidation, "invalid operating days", err)
			}
			params.OperatingDays = &days
		}
		if cmd.OperatingHours != nil {
			window, err := timeslot.ParseWindow(*cmd.OperatingHours)
			if err != nil {
				return fault.Wrap(fault.CodeValidation, "invalid operating hours", err)
			}
			params.OperatingHours = &window
		}

		if err := v.Update(params, now); err != nil {
			return fault.Wrap(fault.CodeValidation, "invalid venue update", err)
		}
		if err := unit.Venues().Save(ctx, v); err != nil {
			if errors.Is(err, domainvenue.ErrVersionConflict) {
				return fault.Wrap(fault.CodeStaleState, "venue changed concurrently, re-read and retry", err)
			}
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, v.Drain()); err != nil {
			return err
		}
		out := toView(v)
		view = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.Emitter != nil {
		h.Emitter.Emit(ctx, notify.Event{
			Kind:      domainvenue.EventVenueUpdated,
			VenueID:   domainvenue.VenueID(view.ID),
			Title:     "Venue updated",
			Message:   view.CourtName + " updated its details",
			Data:      view,
			Timestamp: now,
		})
	}
	return view, nil
}

func (h *UpdateVenueHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
