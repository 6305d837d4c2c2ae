package venues

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"courtside/internal/app/outbox"
	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	"courtside/internal/domain/shared/fault"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type CreateVenueCommand struct {
	VenueID        string
	OwnerID        string
	CourtName      string
	Address        string
	Sports         []string
	Amenities      []string
	RateCents      int64
	Currency       string
	OperatingDays  string
	OperatingHours string
}

type CreateVenueHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateVenueHandler) Handle(ctx context.Context, cmd CreateVenueCommand) (*VenueView, error) {
	rate, err := money.New(cmd.RateCents, cmd.Currency)
	if err != nil {
		return nil, fault.Wrap(fault.CodeValidation, "invalid hourly rate", err)
	}
	days := timeslot.EveryDay
	if cmd.OperatingDays != "" {
		days, err = timeslot.ParseDays(cmd.OperatingDays)
		if err != nil {
			return nil, fault.Wrap(fault.CodeValidation, "invalid operating days", err)
		}
	}
	window := timeslot.Window{Open: 0, Close: 24 * 60}
	if cmd.OperatingHours != "" {
		window, err = timeslot.ParseWindow(cmd.OperatingHours)
		if err != nil {
			return nil, fault.Wrap(fault.CodeValidation, "invalid operating hours", err)
		}
	}
	now := h.now()

	var view *VenueView
	err = txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		owner, err := unit.Users().ByID(ctx, domainuser.UserID(cmd.OwnerID))
		if err != nil {
			if errors.Is(err, domainuser.ErrNotFound) {
				return fault.NotFound("user")
			}
			return err
		}
		if !owner.IsOwner() {
			return fault.Forbidden("only facilities accounts may list venues")
		}

		id := cmd.VenueID
		if id == "" {
			id = uuid.NewString()
		}
		v, err := domainvenue.New(domainvenue.CreateParams{
			ID:             domainvenue.VenueID(id),
			OwnerID:        owner.ID,
			CourtName:      cmd.CourtName,
			Address:        cmd.Address,
			Sports:         cmd.Sports,
			Amenities:      cmd.Amenities,
			HourlyRate:     rate,
			OperatingDays:  days,
			OperatingHours: window,
			Now:            now,
		})
		if err != nil {
			return fault.Wrap(fault.CodeValidation, "invalid venue", err)
		}
		if err := unit.Venues().Save(ctx, v); err != nil {
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
	return view, nil
}

func (h *CreateVenueHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
