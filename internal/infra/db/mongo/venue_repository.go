package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type VenueRepository struct {
	col *mongo.Collection
}

func NewVenueRepository(db *mongo.Database) *VenueRepository {
	return &VenueRepository{col: db.Collection("agg_venue")}
}

func (r *VenueRepository) ByID(ctx context.Context, id domainvenue.VenueID) (*domainvenue.Venue, error) {
	var doc venueDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainvenue.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts with a version filter. A stale writer either matches nothing
// or trips the _id unique index on the upsert path; both mean the stored
// version moved on.
func (r *VenueRepository) Save(ctx context.Context, v *domainvenue.Venue) error {
	doc := newVenueDocument(v)
	filter := bson.M{"_id": doc.ID, "version": v.Version}
	doc.Version = v.Version + 1
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainvenue.ErrVersionConflict
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainvenue.ErrVersionConflict
	}
	v.Version = doc.Version
	return nil
}

func (r *VenueRepository) Delete(ctx context.Context, id domainvenue.VenueID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *VenueRepository) ListByOwner(ctx context.Context, ownerID domainuser.UserID) ([]*domainvenue.Venue, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *VenueRepository) Search(ctx context.Context, params domainvenue.SearchParams) ([]*domainvenue.Venue, error) {
	filter := bson.M{}
	if params.Sport != "" {
		filter["sports"] = bson.M{"$regex": "^" + params.Sport + "$", "$options": "i"}
	}
	rate := bson.M{}
	if params.MinRateCents > 0 {
		rate["$gte"] = params.MinRateCents
	}
	if params.MaxRateCents > 0 {
		rate["$lte"] = params.MaxRateCents
	}
	if len(rate) > 0 {
		filter["rate_cents"] = rate
	}
	if params.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": params.MinRating}
	}
	if params.Query != "" {
		filter["$or"] = bson.A{
			bson.M{"court_name": bson.M{"$regex": params.Query, "$options": "i"}},
			bson.M{"address": bson.M{"$regex": params.Query, "$options": "i"}},
		}
	}
	return r.find(ctx, filter)
}

func (r *VenueRepository) find(ctx context.Context, filter bson.M) ([]*domainvenue.Venue, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainvenue.Venue
	for cur.Next(ctx) {
		var doc venueDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type venueDocument struct {
	ID            string          `bson:"_id"`
	OwnerID       string          `bson:"owner_id"`
	CourtName     string          `bson:"court_name"`
	Address       string          `bson:"address"`
	Sports        []string        `bson:"sports"`
	Amenities     []string        `bson:"amenities"`
	RateCents     int64           `bson:"rate_cents"`
	Currency      string          `bson:"currency"`
	Days          uint8           `bson:"operating_days"`
	Hours         timeslot.Window `bson:"operating_hours"`
	Photos        []string        `bson:"photos"`
	Rating        *float64        `bson:"rating"`
	TotalBookings int64           `bson:"total_bookings"`
	RevenueCents  int64           `bson:"revenue_cents"`
	CreatedAt     int64           `bson:"created_at"`
	UpdatedAt     int64           `bson:"updated_at"`
	Version       int64           `bson:"version"`
}

func newVenueDocument(v *domainvenue.Venue) venueDocument {
	return venueDocument{
		ID:            string(v.ID),
		OwnerID:       string(v.OwnerID),
		CourtName:     v.CourtName,
		Address:       v.Address,
		Sports:        v.Sports,
		Amenities:     v.Amenities,
		RateCents:     v.HourlyRate.Cents,
		Currency:      v.HourlyRate.Currency,
		Days:          uint8(v.OperatingDays),
		Hours:         v.OperatingHours,
		Photos:        v.Photos,
		Rating:        v.Rating,
		TotalBookings: v.TotalBookings,
		RevenueCents:  v.TotalRevenue.Cents,
		CreatedAt:     v.CreatedAt.UnixMilli(),
		UpdatedAt:     v.UpdatedAt.UnixMilli(),
		Version:       v.Version,
	}
}

func (d venueDocument) toAggregate() *domainvenue.Venue {
	return &domainvenue.Venue{
		ID:             domainvenue.VenueID(d.ID),
		OwnerID:        domainuser.UserID(d.OwnerID),
		CourtName:      d.CourtName,
		Address:        d.Address,
		Sports:         d.Sports,
		Amenities:      d.Amenities,
		HourlyRate:     money.Money{Cents: d.RateCents, Currency: d.Currency},
		OperatingDays:  timeslot.DaySet(d.Days),
		OperatingHours: d.Hours,
		Photos:         d.Photos,
		Rating:         d.Rating,
		TotalBookings:  d.TotalBookings,
		TotalRevenue:   money.Money{Cents: d.RevenueCents, Currency: d.Currency},
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
}
