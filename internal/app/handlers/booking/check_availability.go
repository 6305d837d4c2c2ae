package booking

import (
	"context"
	"errors"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/fault"
	"courtside/internal/domain/shared/timeslot"
	domainvenue "courtside/internal/domain/venue"
)

type CheckAvailabilityQuery struct {
	VenueID string
	Date    string
	// StartTime and Hours are optional; when absent only the day's taken
	// slots are returned.
	StartTime string
	Hours     int
}

type TakenSlot struct {
	BookingID string `json:"booking_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

type CheckAvailabilityResult struct {
	Available bool        `json:"available"`
	Conflict  *TakenSlot  `json:"conflict,omitempty"`
	Taken     []TakenSlot `json:"taken_slots"`
	Window    string      `json:"operating_hours"`
	Open      bool        `json:"open"`
}

// CheckAvailabilityHandler is the advisory read. It is not a reservation:
// the create path re-checks under the lock, so a "free" answer here can
// still lose to a concurrent booking.
type CheckAvailabilityHandler struct {
	UoWFactory uow.Factory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (*CheckAvailabilityResult, error) {
	date, err := timeslot.ParseDate(q.Date)
	if err != nil {
		return nil, fault.Wrap(fault.CodeValidation, "invalid date", err)
	}

	var result *CheckAvailabilityResult
	err = txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(q.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		existing, err := unit.Bookings().ForVenueOn(ctx, v.ID, date, domainbooking.ActiveStatuses)
		if err != nil {
			return err
		}

		result = &CheckAvailabilityResult{
			Available: true,
			Window:    v.OperatingHours.String(),
			Open:      v.OperatingDays.Contains(date.Weekday()),
		}
		for _, b := range existing {
			result.Taken = append(result.Taken, takenSlot(b))
		}

		if q.StartTime == "" && q.Hours == 0 {
			return nil
		}
		start, err := timeslot.ParseClock(q.StartTime)
		if err != nil {
			return fault.Wrap(fault.CodeValidation, "invalid start time", err)
		}
		slot, err := timeslot.NewSlot(start, q.Hours)
		if err != nil {
			return fault.Wrap(fault.CodeValidation, "invalid slot", err)
		}
		if !v.OpenFor(date, slot) {
			result.Available = false
			return nil
		}
		if clash := domainbooking.FirstConflict(slot, existing); clash != nil {
			result.Available = false
			ts := takenSlot(clash)
			result.Conflict = &ts
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func takenSlot(b *domainbooking.Booking) TakenSlot {
	return TakenSlot{
		BookingID: string(b.ID),
		StartTime: timeslot.FormatClock(b.Slot.Start),
		EndTime:   timeslot.FormatClock(b.Slot.End()),
		Status:    string(b.Status),
	}
}
