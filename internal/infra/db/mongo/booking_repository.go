package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts with a version filter. A matched count of zero means another
// writer moved the document's version and the caller's copy is stale.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrVersionConflict
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrVersionConflict
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ForVenueOn(ctx context.Context, venueID domainvenue.VenueID, date time.Time, statuses []domainbooking.Status) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"venue_id": venueID,
		"date":     timeslot.FormatDate(date),
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.find(ctx, filter)
}

func (r *BookingRepository) ListByPlayer(ctx context.Context, playerID domainuser.UserID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"player_id": playerID})
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID domainvenue.VenueID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"venue_id": venueID})
}

func (r *BookingRepository) DeleteByVenue(ctx context.Context, venueID domainvenue.VenueID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"venue_id": venueID})
	return err
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "slot.start", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID          string        `bson:"_id"`
	VenueID     string        `bson:"venue_id"`
	PlayerID    string        `bson:"player_id"`
	PlayerName  string        `bson:"player_name"`
	PlayerEmail string        `bson:"player_email"`
	Date        string        `bson:"date"`
	Slot        timeslot.Slot `bson:"slot"`
	PayMethod   string        `bson:"pay_method"`
	Status      string        `bson:"status"`
	AmountCents int64         `bson:"amount_cents"`
	Currency    string        `bson:"currency"`
	CreatedAt   int64         `bson:"created_at"`
	UpdatedAt   int64         `bson:"updated_at"`
	Version     int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:          string(b.ID),
		VenueID:     string(b.VenueID),
		PlayerID:    string(b.PlayerID),
		PlayerName:  b.PlayerName,
		PlayerEmail: b.PlayerEmail,
		Date:        timeslot.FormatDate(b.Date),
		Slot:        b.Slot,
		PayMethod:   b.PayMethod,
		Status:      string(b.Status),
		AmountCents: b.TotalAmount.Cents,
		Currency:    b.TotalAmount.Currency,
		CreatedAt:   b.CreatedAt.UnixMilli(),
		UpdatedAt:   b.UpdatedAt.UnixMilli(),
		Version:     b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	date, _ := timeslot.ParseDate(d.Date)
	return &domainbooking.Booking{
		ID:          domainbooking.BookingID(d.ID),
		VenueID:     domainvenue.VenueID(d.VenueID),
		PlayerID:    domainuser.UserID(d.PlayerID),
		PlayerName:  d.PlayerName,
		PlayerEmail: d.PlayerEmail,
		Date:        date,
		Slot:        d.Slot,
		PayMethod:   d.PayMethod,
		Status:      domainbooking.Status(d.Status),
		TotalAmount: money.Money{Cents: d.AmountCents, Currency: d.Currency},
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
