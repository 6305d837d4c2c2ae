package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courtside/internal/app/locks"
	"courtside/internal/app/notify"
	"courtside/internal/app/outbox"
	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/payment"
	"courtside/internal/domain/shared/fault"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type CreateBookingCommand struct {
	BookingID string
	VenueID   string
	PlayerID  string
	Date      string
	StartTime string
	Hours     int
	PayMethod string
}

type CreateBookingResult struct {
	BookingID   string `json:"booking_id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// CreateBookingHandler owns the slot-granting critical section: for one
// (venue, date) pair the availability check and the insert run under the
// keyed lock, so two overlapping requests can never both pass the check.
type CreateBookingHandler struct {
	UoWFactory uow.Factory
	Locks      *locks.Keyed
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Emitter    notify.Emitter
	Now        func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	date, err := timeslot.ParseDate(cmd.Date)
	if err != nil {
		return nil, fault.Wrap(fault.CodeValidation, "invalid date", err)
	}
	start, err := timeslot.ParseClock(cmd.StartTime)
	if err != nil {
		return nil, fault.Wrap(fault.CodeValidation, "invalid start time", err)
	}
	slot, err := timeslot.NewSlot(start, cmd.Hours)
	if err != nil {
		return nil, fault.Wrap(fault.CodeValidation, "invalid slot", err)
	}
	now := h.now()
	today := now.Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, fault.Validation("booking date %s is in the past", cmd.Date)
	}

	if h.Locks != nil {
		release, err := h.Locks.Acquire(ctx, lockKey(cmd.VenueID, cmd.Date))
		if err != nil {
			if errors.Is(err, locks.ErrBusy) {
				return nil, fault.Wrap(fault.CodeBusy, "venue schedule is busy, retry shortly", err)
			}
			return nil, err
		}
		defer release()
	}

	var result *CreateBookingResult
	var snapshot domainbooking.Snapshot
	var ownerID domainuser.UserID

	err = txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(cmd.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		player, err := unit.Users().ByID(ctx, domainuser.UserID(cmd.PlayerID))
		if err != nil {
			if errors.Is(err, domainuser.ErrNotFound) {
				return fault.NotFound("user")
			}
			return err
		}
		if !v.OpenFor(date, slot) {
			return fault.Validation("venue is closed for the requested slot")
		}

		existing, err := unit.Bookings().ForVenueOn(ctx, v.ID, date, domainbooking.ActiveStatuses)
		if err != nil {
			return err
		}
		if clash := domainbooking.FirstConflict(slot, existing); clash != nil {
			return fault.Conflict(fmt.Sprintf("slot overlaps booking %s (%s-%s)",
				clash.ID, timeslot.FormatClock(clash.Slot.Start), timeslot.FormatClock(clash.Slot.End())))
		}

		id := cmd.BookingID
		if id == "" {
			id = uuid.NewString()
		}
		b, err := domainbooking.New(domainbooking.CreateParams{
			ID:          domainbooking.BookingID(id),
			VenueID:     v.ID,
			PlayerID:    player.ID,
			PlayerName:  player.FullName,
			PlayerEmail: player.Email,
			Date:        date,
			Slot:        slot,
			PayMethod:   cmd.PayMethod,
			HourlyRate:  v.HourlyRate,
			Now:         now,
		})
		if err != nil {
			return fault.Wrap(fault.CodeValidation, "invalid booking", err)
		}
		if err := unit.Bookings().Save(ctx, b); err != nil {
			return err
		}

		p := payment.NewForBooking(payment.PaymentID(uuid.NewString()), b, now)
		if err := unit.Payments().Save(ctx, p); err != nil {
			return err
		}

		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, b.Drain()); err != nil {
			return err
		}

		snapshot = b.Snapshot()
		ownerID = v.OwnerID
		result = &CreateBookingResult{
			BookingID:   string(b.ID),
			Status:      string(b.Status),
			AmountCents: b.TotalAmount.Cents,
			Currency:    b.TotalAmount.Currency,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.Emitter != nil {
		h.Emitter.Emit(ctx, notify.Event{
			Kind:       domainbooking.EventBookingCreated,
			Recipients: []domainuser.UserID{ownerID},
			VenueID:    snapshot.VenueID,
			Title:      "New booking request",
			Message:    fmt.Sprintf("%s requested %s %s-%s", snapshot.PlayerName, snapshot.Date, snapshot.StartTime, snapshot.EndTime),
			Data:       snapshot,
			Timestamp:  now,
		})
	}
	return result, nil
}

func (h *CreateBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func lockKey(venueID, date string) string {
	return venueID + "@" + date
}
