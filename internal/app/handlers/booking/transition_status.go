package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/internal/app/notify"
	"courtside/internal/app/outbox"
	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/fault"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type TransitionStatusCommand struct {
	BookingID string
	ActorID   string
	Next      string
}

type TransitionStatusResult struct {
	BookingID string `json:"booking_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// StatsRecomputer is the aggregate maintainer hook. It must absorb its own
// failures; the transition is already committed when it runs.
type StatsRecomputer interface {
	OnBookingTransition(ctx context.Context, b *domainbooking.Booking)
}

// TransitionStatusHandler applies one state machine move. Concurrent moves
// on the same booking are resolved by the store's version check: the loser
// gets STALE_STATE and must re-read before retrying.
type TransitionStatusHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Emitter    notify.Emitter
	Stats      StatsRecomputer
	Now        func() time.Time
}

func (h *TransitionStatusHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) (*TransitionStatusResult, error) {
	next := domainbooking.Status(cmd.Next)
	if !domainbooking.ValidStatus(next) {
		return nil, fault.Validation("unknown status %q", cmd.Next)
	}
	now := h.now()

	var result *TransitionStatusResult
	var updated *domainbooking.Booking
	var recipients []domainuser.UserID

	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
		if err != nil {
			if errors.Is(err, domainbooking.ErrNotFound) {
				return fault.NotFound("booking")
			}
			return err
		}
		v, err := unit.Venues().ByID(ctx, b.VenueID)
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		actor := domainuser.UserID(cmd.ActorID)
		if actor != b.PlayerID && actor != v.OwnerID {
			return fault.Forbidden("only the requesting player or the venue owner may change this booking")
		}

		old := b.Status
		if err := b.Transition(next, now); err != nil {
			if errors.Is(err, domainbooking.ErrInvalidTransition) {
				return fault.Wrap(fault.CodeInvalidTransition,
					fmt.Sprintf("cannot move booking from %s to %s", old, next), err)
			}
			return err
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			if errors.Is(err, domainbooking.ErrVersionConflict) {
				return fault.Wrap(fault.CodeStaleState, "booking changed concurrently, re-read and retry", err)
			}
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, b.Drain()); err != nil {
			return err
		}

		// Both parties hear about the move; the actor's other sessions and
		// inbox must see it too.
		recipients = []domainuser.UserID{b.PlayerID}
		if v.OwnerID != b.PlayerID {
			recipients = append(recipients, v.OwnerID)
		}
		updated = b
		result = &TransitionStatusResult{
			BookingID: string(b.ID),
			OldStatus: string(old),
			NewStatus: string(b.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.Stats != nil {
		h.Stats.OnBookingTransition(ctx, updated)
	}
	if h.Emitter != nil {
		snap := updated.Snapshot()
		h.Emitter.Emit(ctx, notify.Event{
			Kind:       domainbooking.EventBookingStatusChanged,
			Recipients: recipients,
			VenueID:    updated.VenueID,
			Title:      "Booking " + string(updated.Status),
			Message:    fmt.Sprintf("booking for %s %s-%s is now %s", snap.Date, snap.StartTime, snap.EndTime, updated.Status),
			Data:       snap,
			Timestamp:  now,
		})
	}
	return result, nil
}

func (h *TransitionStatusHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
