package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courtside/internal/app/notify"
	"courtside/internal/app/outbox"
	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	domainreview "courtside/internal/domain/review"
	"courtside/internal/domain/shared/fault"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type SubmitReviewCommand struct {
	ReviewID  string
	VenueID   string
	AuthorID  string
	BookingID string
	Rating    int
	Comment   string
}

type SubmitReviewResult struct {
	ReviewID string `json:"review_id"`
}

// RatingRecomputer is the aggregate maintainer hook, called after the review
// commits. It must absorb its own failures.
type RatingRecomputer interface {
	OnReviewCreated(ctx context.Context, venueID domainvenue.VenueID)
}

type SubmitReviewHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Emitter    notify.Emitter
	Rating     RatingRecomputer
	Now        func() time.Time
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	now := h.now()

	var result *SubmitReviewResult
	var ownerID domainuser.UserID
	var venueID domainvenue.VenueID
	var authorName string

	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(cmd.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		author, err := unit.Users().ByID(ctx, domainuser.UserID(cmd.AuthorID))
		if err != nil {
			if errors.Is(err, domainuser.ErrNotFound) {
				return fault.NotFound("user")
			}
			return err
		}

		// One review per author per venue.
		if _, err := unit.Reviews().ByVenueAndAuthor(ctx, v.ID, author.ID); err == nil {
			return fault.Conflict("you already reviewed this venue")
		} else if !errors.Is(err, domainreview.ErrNotFound) {
			return err
		}

		id := cmd.ReviewID
		if id == "" {
			id = uuid.NewString()
		}
		r, err := domainreview.Submit(domainreview.SubmitParams{
			ID:        domainreview.ReviewID(id),
			VenueID:   v.ID,
			AuthorID:  author.ID,
			BookingID: domainbooking.BookingID(cmd.BookingID),
			Rating:    cmd.Rating,
			Comment:   cmd.Comment,
			Now:       now,
		})
		if err != nil {
			if errors.Is(err, domainreview.ErrInvalidRating) {
				return fault.Wrap(fault.CodeValidation, "rating must be between 1 and 5", err)
			}
			return err
		}
		if err := unit.Reviews().Save(ctx, r); err != nil {
			if errors.Is(err, domainreview.ErrDuplicate) {
				return fault.Conflict("you already reviewed this venue")
			}
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, r.Drain()); err != nil {
			return err
		}

		ownerID = v.OwnerID
		venueID = v.ID
		authorName = author.FullName
		result = &SubmitReviewResult{ReviewID: string(r.ID)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.Rating != nil {
		h.Rating.OnReviewCreated(ctx, venueID)
	}
	if h.Emitter != nil {
		h.Emitter.Emit(ctx, notify.Event{
			Kind:       domainreview.EventReviewCreated,
			Recipients: []domainuser.UserID{ownerID},
			VenueID:    venueID,
			Title:      "New review",
			Message:    fmt.Sprintf("%s rated your venue %d/5", authorName, cmd.Rating),
			Data:       map[string]any{"review_id": result.ReviewID, "rating": cmd.Rating},
			Timestamp:  now,
		})
	}
	return result, nil
}

func (h *SubmitReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
