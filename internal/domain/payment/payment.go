package payment

import (
	"context"
	"errors"
	"time"

	"courtside/internal/domain/booking"
	"courtside/internal/domain/shared/money"
)

var ErrNotFound = errors.New("payment: not found")

type PaymentID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
)

// Payment is the placeholder record created alongside every booking. It is
// never processed here; its amount mirrors the booking's frozen total and it
// is deleted with its booking.
type Payment struct {
	ID        PaymentID
	BookingID booking.BookingID
	Method    string
	Amount    money.Money
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	DeleteByBooking(ctx context.Context, bookingID booking.BookingID) error
}

// NewForBooking creates the dependent placeholder in pending.
func NewForBooking(id PaymentID, b *booking.Booking, now time.Time) *Payment {
	ts := now.UTC()
	return &Payment{
		ID:        id,
		BookingID: b.ID,
		Method:    b.PayMethod,
		Amount:    b.TotalAmount,
		Status:    StatusPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}
