package memory

import (
	"context"
	"errors"

	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	domainpayment "courtside/internal/domain/payment"
	domainreview "courtside/internal/domain/review"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires the in-memory repositories into a unit-of-work boundary.
// No isolation is provided; the abstraction matches the application ports.
type Factory struct {
	VenueRepo   domainvenue.Repository
	BookingRepo domainbooking.Repository
	PaymentRepo domainpayment.Repository
	ReviewRepo  domainreview.Repository
	UserRepo    domainuser.Repository
}

// NewFactory builds a factory over fresh stores, mostly for tests.
func NewFactory() Factory {
	return Factory{
		VenueRepo:   NewVenueRepository(),
		BookingRepo: NewBookingRepository(),
		PaymentRepo: NewPaymentRepository(),
		ReviewRepo:  NewReviewRepository(),
		UserRepo:    NewUserRepository(),
	}
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.VenueRepo == nil || f.BookingRepo == nil || f.PaymentRepo == nil || f.ReviewRepo == nil || f.UserRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		venues:   f.VenueRepo,
		bookings: f.BookingRepo,
		payments: f.PaymentRepo,
		reviews:  f.ReviewRepo,
		users:    f.UserRepo,
	}, nil
}

type Unit struct {
	venues   domainvenue.Repository
	bookings domainbooking.Repository
	payments domainpayment.Repository
	reviews  domainreview.Repository
	users    domainuser.Repository
}

func (u *Unit) Venues() domainvenue.Repository     { return u.venues }
func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }
func (u *Unit) Payments() domainpayment.Repository { return u.payments }
func (u *Unit) Reviews() domainreview.Repository   { return u.reviews }
func (u *Unit) Users() domainuser.Repository       { return u.users }

func (u *Unit) Commit(ctx context.Context) error   { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }
