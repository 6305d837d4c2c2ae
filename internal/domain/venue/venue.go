package venue

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"courtside/internal/domain/shared/events"
	"courtside/internal/domain/shared/money"
	"courtside/internal/domain/shared/timeslot"
	"courtside/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("venue: not found")
	ErrMissingField    = errors.New("venue: required field missing")
	ErrInvalidRate     = errors.New("venue: hourly rate must be positive")
	ErrNoOperatingDay  = errors.New("venue: at least one operating day required")
	ErrVersionConflict = errors.New("venue: concurrent update detected")
)

type VenueID string

// Venue is a bookable court. Rating, TotalBookings and TotalRevenue are
// derived aggregates: always a pure function of current reviews and bookings,
// written only by the stats maintainer, never edited directly.
type Venue struct {
	ID             VenueID
	OwnerID        user.UserID
	CourtName      string
	Address        string
	Sports         []string
	Amenities      []string
	HourlyRate     money.Money
	OperatingDays  timeslot.DaySet
	OperatingHours timeslot.Window
	Photos         []string

	Rating        *float64
	TotalBookings int64
	TotalRevenue  money.Money

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id VenueID) (*Venue, error)
	Save(ctx context.Context, v *Venue) error
	Delete(ctx context.Context, id VenueID) error
	ListByOwner(ctx context.Context, ownerID user.UserID) ([]*Venue, error)
	Search(ctx context.Context, params SearchParams) ([]*Venue, error)
}

// SearchParams filter the venue catalog. Zero values mean "no constraint".
type SearchParams struct {
	Sport        string
	MinRateCents int64
	MaxRateCents int64
	MinRating    float64
	Query        string
}

type CreateParams struct {
	ID             VenueID
	OwnerID        user.UserID
	CourtName      string
	Address        string
	Sports         []string
	Amenities      []string
	HourlyRate     money.Money
	OperatingDays  timeslot.DaySet
	OperatingHours timeslot.Window
	Now            time.Time
}

func New(params CreateParams) (*Venue, error) {
	courtName := strings.TrimSpace(params.CourtName)
	if courtName == "" || strings.TrimSpace(params.Address) == "" || len(params.Sports) == 0 {
		return nil, ErrMissingField
	}
	if params.HourlyRate.Cents <= 0 {
		return nil, ErrInvalidRate
	}
	if params.OperatingDays.IsEmpty() {
		return nil, ErrNoOperatingDay
	}
	now := params.Now.UTC()
	return &Venue{
		ID:             params.ID,
		OwnerID:        params.OwnerID,
		CourtName:      courtName,
		Address:        strings.TrimSpace(params.Address),
		Sports:         append([]string(nil), params.Sports...),
		Amenities:      append([]string(nil), params.Amenities...),
		HourlyRate:     params.HourlyRate,
		OperatingDays:  params.OperatingDays,
		OperatingHours: params.OperatingHours,
		TotalRevenue:   money.Zero(params.HourlyRate.Currency),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type UpdateParams struct {
	CourtName      *string
	Address        *string
	Sports         []string
	Amenities      []string
	HourlyRate     *money.Money
	OperatingDays  *timeslot.DaySet
	OperatingHours *timeslot.Window
}

// Update applies partial edits and records a venue_updated event. Derived
// fields are untouched; rate changes never retouch frozen booking amounts.
func (v *Venue) Update(params UpdateParams, now time.Time) error {
	if params.CourtName != nil {
		name := strings.TrimSpace(*params.CourtName)
		if name == "" {
			return ErrMissingField
		}
		v.CourtName = name
	}
	if params.Address != nil {
		addr := strings.TrimSpace(*params.Address)
		if addr == "" {
			return ErrMissingField
		}
		v.Address = addr
	}
	if params.Sports != nil {
		v.Sports = append([]string(nil), params.Sports...)
	}
	if params.Amenities != nil {
		v.Amenities = append([]string(nil), params.Amenities...)
	}
	if params.HourlyRate != nil {
		if params.HourlyRate.Cents <= 0 {
			return ErrInvalidRate
		}
		v.HourlyRate = *params.HourlyRate
	}
	if params.OperatingDays != nil {
		if params.OperatingDays.IsEmpty() {
			return ErrNoOperatingDay
		}
		v.OperatingDays = *params.OperatingDays
	}
	if params.OperatingHours != nil {
		v.OperatingHours = *params.OperatingHours
	}
	v.UpdatedAt = now.UTC()
	v.Record(VenueUpdated{
		BaseEvent: events.BaseEvent{Name: EventVenueUpdated, Aggregate: string(v.ID), Time: v.UpdatedAt},
		VenueID:   v.ID,
		OwnerID:   v.OwnerID,
	})
	return nil
}

// OpenFor reports whether a slot on the given date falls inside the venue's
// operating days and hours.
func (v *Venue) OpenFor(date time.Time, slot timeslot.Slot) bool {
	return v.OperatingDays.Contains(date.Weekday()) && v.OperatingHours.Contains(slot)
}

func (v *Venue) AddPhoto(url string, now time.Time) {
	v.Photos = append(v.Photos, url)
	v.UpdatedAt = now.UTC()
}

// ApplyRating writes the recomputed average; nil clears it (no reviews).
// Called only by the aggregate maintainer.
func (v *Venue) ApplyRating(avg *float64, now time.Time) {
	if avg == nil {
		v.Rating = nil
	} else {
		rounded := RoundRating(*avg)
		v.Rating = &rounded
	}
	v.UpdatedAt = now.UTC()
}

// ApplyStats writes the recomputed confirmed-booking totals. Called only by
// the aggregate maintainer.
func (v *Venue) ApplyStats(totalBookings int64, totalRevenue money.Money, now time.Time) {
	v.TotalBookings = totalBookings
	v.TotalRevenue = totalRevenue
	v.UpdatedAt = now.UTC()
}

// RoundRating rounds an average review score to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
