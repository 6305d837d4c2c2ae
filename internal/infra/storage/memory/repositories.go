package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainbooking "courtside/internal/domain/booking"
	"courtside/internal/domain/shared/events"
	domainpayment "courtside/internal/domain/payment"
	domainreview "courtside/internal/domain/review"
	domainuser "courtside/internal/domain/user"
	domainvenue "courtside/internal/domain/venue"
)

// VenueRepository is the in-memory venue store used for dev and tests. Save
// carries the same version check as the mongo repo so a stale writer loses
// here too.
type VenueRepository struct {
	mu    sync.RWMutex
	items map[domainvenue.VenueID]*domainvenue.Venue
}

func NewVenueRepository() *VenueRepository {
	return &VenueRepository{items: make(map[domainvenue.VenueID]*domainvenue.Venue)}
}

func (r *VenueRepository) ByID(ctx context.Context, id domainvenue.VenueID) (*domainvenue.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return nil, domainvenue.ErrNotFound
	}
	return cloneVenue(v), nil
}

func (r *VenueRepository) Save(ctx context.Context, v *domainvenue.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[v.ID]; ok && stored.Version != v.Version {
		return domainvenue.ErrVersionConflict
	}
	stored := cloneVenue(v)
	stored.Version = v.Version + 1
	r.items[v.ID] = stored
	v.Version = stored.Version
	return nil
}

func (r *VenueRepository) Delete(ctx context.Context, id domainvenue.VenueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *VenueRepository) ListByOwner(ctx context.Context, ownerID domainuser.UserID) ([]*domainvenue.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainvenue.Venue
	for _, v := range r.items {
		if v.OwnerID == ownerID {
			out = append(out, cloneVenue(v))
		}
	}
	sortVenues(out)
	return out, nil
}

func (r *VenueRepository) Search(ctx context.Context, params domainvenue.SearchParams) ([]*domainvenue.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainvenue.Venue
	for _, v := range r.items {
		if params.Sport != "" && !hasSport(v, params.Sport) {
			continue
		}
		if params.MinRateCents > 0 && v.HourlyRate.Cents < params.MinRateCents {
			continue
		}
		if params.MaxRateCents > 0 && v.HourlyRate.Cents > params.MaxRateCents {
			continue
		}
		if params.MinRating > 0 && (v.Rating == nil || *v.Rating < params.MinRating) {
			continue
		}
		if params.Query != "" && !matchesQuery(v, params.Query) {
			continue
		}
		out = append(out, cloneVenue(v))
	}
	sortVenues(out)
	return out, nil
}

func hasSport(v *domainvenue.Venue, sport string) bool {
	for _, s := range v.Sports {
		if strings.EqualFold(s, sport) {
			return true
		}
	}
	return false
}

func matchesQuery(v *domainvenue.Venue, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	return strings.Contains(strings.ToLower(v.CourtName), needle) ||
		strings.Contains(strings.ToLower(v.Address), needle)
}

func sortVenues(list []*domainvenue.Venue) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

func cloneVenue(v *domainvenue.Venue) *domainvenue.Venue {
	c := *v
	c.Recorder = events.Recorder{}
	c.Sports = append([]string(nil), v.Sports...)
	c.Amenities = append([]string(nil), v.Amenities...)
	c.Photos = append([]string(nil), v.Photos...)
	if v.Rating != nil {
		rating := *v.Rating
		c.Rating = &rating
	}
	return &c
}

// BookingRepository stores bookings with optimistic versioning: Save fails
// with ErrVersionConflict when the caller's version is stale.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[b.ID]; ok && stored.Version != b.Version {
		return domainbooking.ErrVersionConflict
	}
	stored := cloneBooking(b)
	stored.Version = b.Version + 1
	r.items[b.ID] = stored
	b.Version = stored.Version
	return nil
}

func (r *BookingRepository) ForVenueOn(ctx context.Context, venueID domainvenue.VenueID, date time.Time, statuses []domainbooking.Status) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := date.UTC().Truncate(24 * time.Hour)
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.VenueID != venueID || !b.Date.UTC().Truncate(24*time.Hour).Equal(day) {
			continue
		}
		if len(statuses) > 0 && !statusIncluded(b.Status, statuses) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByPlayer(ctx context.Context, playerID domainuser.UserID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.PlayerID == playerID {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID domainvenue.VenueID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.VenueID == venueID {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out, nil
}

func (r *BookingRepository) DeleteByVenue(ctx context.Context, venueID domainvenue.VenueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.items {
		if b.VenueID == venueID {
			delete(r.items, id)
		}
	}
	return nil
}

func statusIncluded(status domainbooking.Status, allowed []domainbooking.Status) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func sortBookings(list []*domainbooking.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		if list[i].Slot.Start != list[j].Slot.Start {
			return list[i].Slot.Start < list[j].Slot.Start
		}
		return list[i].ID < list[j].ID
	})
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	c := *b
	c.Recorder = events.Recorder{}
	return &c
}

// ReviewRepository enforces the one-review-per-(venue, author) constraint at
// the storage layer too.
type ReviewRepository struct {
	mu    sync.RWMutex
	items map[domainreview.ReviewID]*domainreview.Review
	byKey map[string]domainreview.ReviewID
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		items: make(map[domainreview.ReviewID]*domainreview.Review),
		byKey: make(map[string]domainreview.ReviewID),
	}
}

func (r *ReviewRepository) ByVenueAndAuthor(ctx context.Context, venueID domainvenue.VenueID, authorID domainuser.UserID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[reviewKey(venueID, authorID)]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	return cloneReview(r.items[id]), nil
}

func (r *ReviewRepository) ListByVenue(ctx context.Context, venueID domainvenue.VenueID) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreview.Review
	for _, rev := range r.items {
		if rev.VenueID == venueID {
			out = append(out, cloneReview(rev))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, rev *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reviewKey(rev.VenueID, rev.AuthorID)
	if existing, ok := r.byKey[key]; ok && existing != rev.ID {
		return domainreview.ErrDuplicate
	}
	r.items[rev.ID] = cloneReview(rev)
	r.byKey[key] = rev.ID
	return nil
}

func (r *ReviewRepository) DeleteByVenue(ctx context.Context, venueID domainvenue.VenueID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rev := range r.items {
		if rev.VenueID == venueID {
			delete(r.byKey, reviewKey(rev.VenueID, rev.AuthorID))
			delete(r.items, id)
		}
	}
	return nil
}

func reviewKey(venueID domainvenue.VenueID, authorID domainuser.UserID) string {
	return string(venueID) + "|" + string(authorID)
}

func cloneReview(rev *domainreview.Review) *domainreview.Review {
	c := *rev
	c.Recorder = events.Recorder{}
	return &c
}

// PaymentRepository stores the per-booking payment placeholders.
type PaymentRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainpayment.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{items: make(map[domainbooking.BookingID]*domainpayment.Payment)}
}

func (r *PaymentRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainpayment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[bookingID]
	if !ok {
		return nil, domainpayment.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *domainpayment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	r.items[p.BookingID] = &c
	return nil
}

func (r *PaymentRepository) DeleteByBooking(ctx context.Context, bookingID domainbooking.BookingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, bookingID)
	return nil
}
