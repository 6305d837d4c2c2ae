package uow

import (
	"context"

	domainbooking "courtside/internal/domain/booking"
	domainpayment "courtside/internal/domain/payment"
	domainreview "courtside/internal/domain/review"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Venues() domainvenue.Repository
	Bookings() domainbooking.Repository
	Payments() domainpayment.Repository
	Reviews() domainreview.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
