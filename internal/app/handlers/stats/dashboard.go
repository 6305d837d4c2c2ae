package stats

import (
	"context"

	"courtside/internal/app/txn"
	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	domainuser "courtside/internal/domain/user"
)

type DashboardQuery struct {
	OwnerID string
}

type VenueStats struct {
	VenueID       string   `json:"venue_id"`
	CourtName     string   `json:"court_name"`
	Rating        *float64 `json:"rating"`
	TotalBookings int64    `json:"total_bookings"`
	RevenueCents  int64    `json:"total_revenue_cents"`
	PendingCount  int64    `json:"pending_requests"`
}

type DashboardResult struct {
	Venues            []VenueStats `json:"venues"`
	TotalBookings     int64        `json:"total_bookings"`
	TotalRevenueCents int64        `json:"total_revenue_cents"`
	PendingRequests   int64        `json:"pending_requests"`
}

// DashboardHandler reads the stored derived aggregates; it never recomputes
// them, so the numbers match what the maintainer last wrote.
type DashboardHandler struct {
	UoWFactory uow.Factory
}

func (h *DashboardHandler) Handle(ctx context.Context, q DashboardQuery) (*DashboardResult, error) {
	var result *DashboardResult
	err := txn.With(ctx, h.UoWFactory, uow.TxOptions{ReadOnly: true}, func(ctx context.Context, unit uow.UnitOfWork) error {
		venues, err := unit.Venues().ListByOwner(ctx, domainuser.UserID(q.OwnerID))
		if err != nil {
			return err
		}
		result = &DashboardResult{Venues: make([]VenueStats, 0, len(venues))}
		for _, v := range venues {
			bookings, err := unit.Bookings().ListByVenue(ctx, v.ID)
			if err != nil {
				return err
			}
			var pending int64
			for _, b := range bookings {
				if b.Status == domainbooking.StatusPending {
					pending++
				}
			}
			result.Venues = append(result.Venues, VenueStats{
				VenueID:       string(v.ID),
				CourtName:     v.CourtName,
				Rating:        v.Rating,
				TotalBookings: v.TotalBookings,
				RevenueCents:  v.TotalRevenue.Cents,
				PendingCount:  pending,
			})
			result.TotalBookings += v.TotalBookings
			result.TotalRevenueCents += v.TotalRevenue.Cents
			result.PendingRequests += pending
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
