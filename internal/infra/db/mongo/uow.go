package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	domainpayment "courtside/internal/domain/payment"
	domainreview "courtside/internal/domain/review"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic unit-of-work interface.
type Factory struct {
	DB *mongo.Database

	VenueRepo   domainvenue.Repository
	BookingRepo domainbooking.Repository
	PaymentRepo domainpayment.Repository
	ReviewRepo  domainreview.Repository
	UserRepo    domainuser.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(f.DB.ReadConcern()).
		SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:  session,
		venues:   f.VenueRepo,
		bookings: f.BookingRepo,
		payments: f.PaymentRepo,
		reviews:  f.ReviewRepo,
		users:    f.UserRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

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

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session visible to downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
