package reviews

import (
	"context"
	"errors"
	"time"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainreview "courtside/internal/domain/review"
	"courtside/internal/domain/shared/fault"
	domainvenue "courtside/internal/domain/venue"
)

type ListReviewsQuery struct {
	VenueID string
}

type ReviewView struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListReviewsResult struct {
	Reviews []ReviewView `json:"reviews"`
	Average *float64     `json:"average_rating"`
}

type ListReviewsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListReviewsHandler) Handle(ctx context.Context, q ListReviewsQuery) (*ListReviewsResult, error) {
	var result *ListReviewsResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		venueID := domainvenue.VenueID(q.VenueID)
		if _, err := unit.Venues().ByID(ctx, venueID); err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		list, err := unit.Reviews().ListByVenue(ctx, venueID)
		if err != nil {
			return err
		}
		views := make([]ReviewView, 0, len(list))
		for _, r := range list {
			view := ReviewView{
				ID:        string(r.ID),
				VenueID:   string(r.VenueID),
				AuthorID:  string(r.AuthorID),
				Rating:    r.Rating,
				Comment:   r.Comment,
				CreatedAt: r.CreatedAt,
			}
			if author, err := unit.Users().ByID(ctx, r.AuthorID); err == nil {
				view.Author = author.FullName
			}
			views = append(views, view)
		}
		avg := domainreview.Mean(list)
		if avg != nil {
			rounded := domainvenue.RoundRating(*avg)
			avg = &rounded
		}
		result = &ListReviewsResult{Reviews: views, Average: avg}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
