package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "courtside/internal/domain/booking"
	domainreview "courtside/internal/domain/review"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type ReviewRepository struct {
	col *mongo.Collection
}

// NewReviewRepository expects a unique index on {venue_id, author_id} so the
// one-review-per-pair rule also holds under concurrent writers.
func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("agg_review")}
}

// EnsureIndexes creates the unique pair index. Call once at startup.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "venue_id", Value: 1}, {Key: "author_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ReviewRepository) ByVenueAndAuthor(ctx context.Context, venueID domainvenue.VenueID, authorID domainuser.UserID) (*domainreview.Review, error) {
	var doc reviewDocument
	err := r.col.FindOne(ctx, bson.M{"venue_id": venueID, "author_id": authorID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReviewRepository) ListByVenue(ctx context.Context, venueID domainvenue.VenueID) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"venue_id": venueID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainreview.Review
	for cur.Next(ctx) {
		var doc reviewDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	doc := newReviewDocument(rev)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return domainreview.ErrDuplicate
	}
	return err
}

func (r *ReviewRepository) DeleteByVenue(ctx context.Context, venueID domainvenue.VenueID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"venue_id": venueID})
	return err
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	VenueID   string `bson:"venue_id"`
	AuthorID  string `bson:"author_id"`
	BookingID string `bson:"booking_id,omitempty"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func newReviewDocument(rev *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:        string(rev.ID),
		VenueID:   string(rev.VenueID),
		AuthorID:  string(rev.AuthorID),
		BookingID: string(rev.BookingID),
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreview.Review {
	return &domainreview.Review{
		ID:        domainreview.ReviewID(d.ID),
		VenueID:   domainvenue.VenueID(d.VenueID),
		AuthorID:  domainuser.UserID(d.AuthorID),
		BookingID: domainbooking.BookingID(d.BookingID),
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
