package venues

import (
	"context"
	"errors"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	"courtside/internal/domain/shared/fault"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

type GetVenueQuery struct {
	VenueID string
}

type SearchVenuesQuery struct {
	Sport        string
	MinRateCents int64
	MaxRateCents int64
	MinRating    float64
	Query        string
}

type ListOwnerVenuesQuery struct {
	OwnerID string
}

type VenueListResult struct {
	Venues []VenueView `json:"venues"`
}

type SearchVenuesHandler struct {
	UoWFactory uow.Factory
}

func (h *SearchVenuesHandler) Get(ctx context.Context, q GetVenueQuery) (*VenueView, error) {
	var view *VenueView
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		v, err := unit.Venues().ByID(ctx, domainvenue.VenueID(q.VenueID))
		if err != nil {
			if errors.Is(err, domainvenue.ErrNotFound) {
				return fault.NotFound("venue")
			}
			return err
		}
		out := toView(v)
		view = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (h *SearchVenuesHandler) Search(ctx context.Context, q SearchVenuesQuery) (*VenueListResult, error) {
	if q.MinRateCents < 0 || q.MaxRateCents < 0 {
		return nil, fault.Validation("rate bounds must not be negative")
	}
	if q.MaxRateCents > 0 && q.MinRateCents > q.MaxRateCents {
		return nil, fault.Validation("minimum rate exceeds maximum rate")
	}
	var result *VenueListResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		list, err := unit.Venues().Search(ctx, domainvenue.SearchParams{
			Sport:        q.Sport,
			MinRateCents: q.MinRateCents,
			MaxRateCents: q.MaxRateCents,
			MinRating:    q.MinRating,
			Query:        q.Query,
		})
		if err != nil {
			return err
		}
		result = &VenueListResult{Venues: views(list)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *SearchVenuesHandler) ListOwner(ctx context.Context, q ListOwnerVenuesQuery) (*VenueListResult, error) {
	var result *VenueListResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		list, err := unit.Venues().ListByOwner(ctx, domainuser.UserID(q.OwnerID))
		if err != nil {
			return err
		}
		result = &VenueListResult{Venues: views(list)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func views(list []*domainvenue.Venue) []VenueView {
	out := make([]VenueView, 0, len(list))
	for _, v := range list {
		out = append(out, toView(v))
	}
	return out
}
