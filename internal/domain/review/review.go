package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"courtside/internal/domain/booking"
	"courtside/internal/domain/shared/events"
	"courtside/internal/domain/user"
	"courtside/internal/domain/venue"
)

var (
	ErrNotFound      = errors.New("review: not found")
	ErrInvalidRating = errors.New("review: rating must be between 1 and 5")
	ErrDuplicate     = errors.New("review: author already reviewed this venue")
)

type ReviewID string

// Review scores a venue. At most one review per (venue, author) pair; the
// booking reference is optional.
type Review struct {
	ID        ReviewID
	VenueID   venue.VenueID
	AuthorID  user.UserID
	BookingID booking.BookingID
	Rating    int
	Comment   string
	CreatedAt time.Time
	events.Recorder
}

type Repository interface {
	ByVenueAndAuthor(ctx context.Context, venueID venue.VenueID, authorID user.UserID) (*Review, error)
	ListByVenue(ctx context.Context, venueID venue.VenueID) ([]*Review, error)
	Save(ctx context.Context, r *Review) error
	DeleteByVenue(ctx context.Context, venueID venue.VenueID) error
}

type SubmitParams struct {
	ID        ReviewID
	VenueID   venue.VenueID
	AuthorID  user.UserID
	BookingID booking.BookingID
	Rating    int
	Comment   string
	Now       time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	r := &Review{
		ID:        params.ID,
		VenueID:   params.VenueID,
		AuthorID:  params.AuthorID,
		BookingID: params.BookingID,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: params.Now.UTC(),
	}
	r.Record(ReviewCreated{
		BaseEvent: events.BaseEvent{Name: EventReviewCreated, Aggregate: string(r.ID), Time: r.CreatedAt},
		ReviewID:  r.ID,
		VenueID:   r.VenueID,
		AuthorID:  r.AuthorID,
		Rating:    r.Rating,
	})
	return r, nil
}

// Mean returns the arithmetic average of the review ratings, or nil when the
// list is empty.
func Mean(list []*Review) *float64 {
	if len(list) == 0 {
		return nil
	}
	var total int
	for _, r := range list {
		total += r.Rating
	}
	avg := float64(total) / float64(len(list))
	return &avg
}
