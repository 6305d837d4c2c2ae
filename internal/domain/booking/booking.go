package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"courtside/internal/domain/shared/events"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	"courtside/internal/domain/user"
	"courtside/internal/domain/venue"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrMissingField      = errors.New("booking: required field missing")
	ErrInvalidTransition = errors.New("booking: invalid state transition")
	ErrVersionConflict   = errors.New("booking: concurrent update detected")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// transitions is the full state machine. Anything not listed here is
// rejected; cancelled, completed and no_show are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// ActiveStatuses are the statuses that occupy a slot. Cancelled, completed
// and no_show bookings free their slot.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Booking reserves a slot at a venue. TotalAmount is computed once at
// creation from the venue's hourly rate and never changes afterwards.
type Booking struct {
	ID          BookingID
	VenueID     venue.VenueID
	PlayerID    user.UserID
	PlayerName  string
	PlayerEmail string
	Date        time.Time
	Slot        timeslot.Slot
	PayMethod   string
	Status      Status
	TotalAmount money.Money

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// Save persists the booking with an optimistic version check and
	// returns ErrVersionConflict when the stored version moved on.
	Save(ctx context.Context, b *Booking) error
	// ForVenueOn is the store's query primitive: bookings for a venue on a
	// date whose status is in the given set.
	ForVenueOn(ctx context.Context, venueID venue.VenueID, date time.Time, statuses []Status) ([]*Booking, error)
	ListByPlayer(ctx context.Context, playerID user.UserID) ([]*Booking, error)
	ListByVenue(ctx context.Context, venueID venue.VenueID) ([]*Booking, error)
	DeleteByVenue(ctx context.Context, venueID venue.VenueID) error
}

type CreateParams struct {
	ID          BookingID
	VenueID     venue.VenueID
	PlayerID    user.UserID
	PlayerName  string
	PlayerEmail string
	Date        time.Time
	Slot        timeslot.Slot
	PayMethod   string
	HourlyRate  money.Money
	Now         time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.VenueID == "" || params.PlayerID == "" || strings.TrimSpace(params.PayMethod) == "" {
		return nil, ErrMissingField
	}
	if params.Date.IsZero() {
		return nil, timeslot.ErrBadDate
	}
	if params.Slot.Hours <= 0 {
		return nil, timeslot.ErrBadDuration
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:          params.ID,
		VenueID:     params.VenueID,
		PlayerID:    params.PlayerID,
		PlayerName:  params.PlayerName,
		PlayerEmail: params.PlayerEmail,
		Date:        params.Date.UTC(),
		Slot:        params.Slot,
		PayMethod:   strings.TrimSpace(params.PayMethod),
		Status:      StatusPending,
		TotalAmount: params.HourlyRate.Times(int64(params.Slot.Hours)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(BookingCreated{
		BaseEvent: events.BaseEvent{Name: EventBookingCreated, Aggregate: string(b.ID), Time: now},
		Booking:   b.Snapshot(),
	})
	return b, nil
}

// Transition moves the booking to next per the state machine and records a
// booking_status_changed event. Undefined moves fail with
// ErrInvalidTransition.
func (b *Booking) Transition(next Status, now time.Time) error {
	allowed, ok := transitions[b.Status]
	if !ok {
		return ErrInvalidTransition
	}
	found := false
	for _, s := range allowed {
		if s == next {
			found = true
			break
		}
	}
	if !found {
		return ErrInvalidTransition
	}
	old := b.Status
	b.Status = next
	b.UpdatedAt = now.UTC()
	b.Record(BookingStatusChanged{
		BaseEvent: events.BaseEvent{Name: EventBookingStatusChanged, Aggregate: string(b.ID), Time: b.UpdatedAt},
		OldStatus: old,
		NewStatus: next,
		Booking:   b.Snapshot(),
	})
	return nil
}

// IsActive reports whether the booking occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

func (b *Booking) IsTerminal() bool {
	_, ok := transitions[b.Status]
	return !ok
}

// CountsTowardStats reports whether the booking contributes to the venue's
// total_bookings/total_revenue. Strictly confirmed: a completed booking
// drops back out of the displayed totals (preserved source behavior).
func (b *Booking) CountsTowardStats() bool {
	return b.Status == StatusConfirmed
}

// Snapshot is the read-only form of a booking carried inside events.
type Snapshot struct {
	ID          BookingID     `json:"id"`
	VenueID     venue.VenueID `json:"venue_id"`
	PlayerID    user.UserID   `json:"player_id"`
	PlayerName  string        `json:"player_name"`
	Date        string        `json:"date"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	Hours       int           `json:"hours"`
	PayMethod   string        `json:"pay_method"`
	Status      Status        `json:"status"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:          b.ID,
		VenueID:     b.VenueID,
		PlayerID:    b.PlayerID,
		PlayerName:  b.PlayerName,
		Date:        timeslot.FormatDate(b.Date),
		StartTime:   timeslot.FormatClock(b.Slot.Start),
		EndTime:     timeslot.FormatClock(b.Slot.End()),
		Hours:       b.Slot.Hours,
		PayMethod:   b.PayMethod,
		Status:      b.Status,
		AmountCents: b.TotalAmount.Cents,
		Currency:    b.TotalAmount.Currency,
	}
}
