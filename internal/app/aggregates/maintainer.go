package aggregates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"courtside/internal/app/uow"
	domainbooking "courtside/internal/domain/booking"
	domainreview "courtside/internal/domain/review"
	domainvenue "courtside/internal/domain/venue"
)

// Maintainer recomputes the derived venue aggregates from a full scan of the
// source facts. Every recompute is idempotent: running it twice for the same
// trigger produces the same stored value, which makes at-least-once retry
// safe.
type Maintainer struct {
	UoW    uow.Factory
	Logger *slog.Logger

	mu    sync.Mutex
	dirty map[domainvenue.VenueID]dirtyFlags
}

type dirtyFlags struct {
	rating bool
	stats  bool
}

func NewMaintainer(factory uow.Factory, logger *slog.Logger) *Maintainer {
	return &Maintainer{
		UoW:    factory,
		Logger: logger,
		dirty:  make(map[domainvenue.VenueID]dirtyFlags),
	}
}

// RecomputeVenueRating sets the venue rating to the arithmetic mean of all
// its reviews rounded to one decimal, or clears it when no reviews exist.
func (m *Maintainer) RecomputeVenueRating(ctx context.Context, venueID domainvenue.VenueID) error {
	unit, err := m.UoW.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	reviews, err := unit.Reviews().ListByVenue(ctx, venueID)
	if err != nil {
		return err
	}
	v, err := unit.Venues().ByID(ctx, venueID)
	if err != nil {
		return err
	}
	v.ApplyRating(domainreview.Mean(reviews), time.Now())
	if err := unit.Venues().Save(ctx, v); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// RecomputeVenueStats rebuilds total_bookings and total_revenue from the
// venue's currently confirmed bookings. Full recompute, not a delta, so
// duplicate or out-of-order triggers cannot make the totals drift.
func (m *Maintainer) RecomputeVenueStats(ctx context.Context, venueID domainvenue.VenueID) error {
	unit, err := m.UoW.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	v, err := unit.Venues().ByID(ctx, venueID)
	if err != nil {
		return err
	}
	bookings, err := unit.Bookings().ListByVenue(ctx, venueID)
	if err != nil {
		return err
	}
	var count int64
	revenue := v.TotalRevenue
	revenue.Cents = 0
	if revenue.Currency == "" {
		revenue.Currency = v.HourlyRate.Currency
	}
	for _, b := range bookings {
		if !b.CountsTowardStats() {
			continue
		}
		count++
		sum, err := revenue.Add(b.TotalAmount)
		if err != nil {
			return err
		}
		revenue = sum
	}
	v.ApplyStats(count, revenue, time.Now())
	if err := unit.Venues().Save(ctx, v); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

// OnBookingTransition is the explicit call the lifecycle manager makes after
// a status write. A recompute failure never fails the transition: it is
// logged and the venue is queued for the reconciliation pass.
func (m *Maintainer) OnBookingTransition(ctx context.Context, b *domainbooking.Booking) {
	if err := m.RecomputeVenueStats(ctx, b.VenueID); err != nil {
		m.logf("venue stats recompute failed", b.VenueID, err)
		m.markDirty(b.VenueID, false, true)
	}
}

// OnReviewCreated is the explicit call the review path makes after saving a
// review.
func (m *Maintainer) OnReviewCreated(ctx context.Context, venueID domainvenue.VenueID) {
	if err := m.RecomputeVenueRating(ctx, venueID); err != nil {
		m.logf("venue rating recompute failed", venueID, err)
		m.markDirty(venueID, true, false)
	}
}

func (m *Maintainer) markDirty(id domainvenue.VenueID, rating, stats bool) {
	m.mu.Lock()
	f := m.dirty[id]
	f.rating = f.rating || rating
	f.stats = f.stats || stats
	m.dirty[id] = f
	m.mu.Unlock()
}

// Reconcile retries every queued recompute once, keeping venues that still
// fail queued for the next pass.
func (m *Maintainer) Reconcile(ctx context.Context) {
	m.mu.Lock()
	pending := m.dirty
	m.dirty = make(map[domainvenue.VenueID]dirtyFlags)
	m.mu.Unlock()

	for id, f := range pending {
		if f.rating {
			if err := m.RecomputeVenueRating(ctx, id); err != nil {
				m.logf("rating reconciliation failed", id, err)
				m.markDirty(id, true, false)
			}
		}
		if f.stats {
			if err := m.RecomputeVenueStats(ctx, id); err != nil {
				m.logf("stats reconciliation failed", id, err)
				m.markDirty(id, false, true)
			}
		}
	}
}

// Run drives the reconciliation pass until the context is cancelled.
func (m *Maintainer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reconcile(ctx)
		}
	}
}

func (m *Maintainer) logf(msg string, id domainvenue.VenueID, err error) {
	if m.Logger != nil {
		m.Logger.Error(msg, "venue_id", id, "error", err)
	}
}
