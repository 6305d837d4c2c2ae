package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "courtside/internal/domain/booking"
	domainpayment "courtside/internal/domain/payment"
	"courtside/internal/domain/shared/money"
)

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection("payments")}
}

func (r *PaymentRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainpayment.Payment, error) {
	var doc paymentDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpayment.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainpayment.Payment) error {
	doc := newPaymentDocument(p)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *PaymentRepository) DeleteByBooking(ctx context.Context, bookingID domainbooking.BookingID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	return err
}

type paymentDocument struct {
	ID          string `bson:"_id"`
	BookingID   string `bson:"booking_id"`
	Method      string `bson:"method"`
	AmountCents int64  `bson:"amount_cents"`
	Currency    string `bson:"currency"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func newPaymentDocument(p *domainpayment.Payment) paymentDocument {
	return paymentDocument{
		ID:          string(p.ID),
		BookingID:   string(p.BookingID),
		Method:      p.Method,
		AmountCents: p.Amount.Cents,
		Currency:    p.Amount.Currency,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}

func (d paymentDocument) toAggregate() *domainpayment.Payment {
	return &domainpayment.Payment{
		ID:        domainpayment.PaymentID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		Method:    d.Method,
		Amount:    money.Money{Cents: d.AmountCents, Currency: d.Currency},
		Status:    domainpayment.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}
