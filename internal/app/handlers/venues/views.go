package venues

import (
	"time"

	domainvenue "courtside/internal/domain/venue"
)

// VenueView is the read shape returned by every venue query and command.
type VenueView struct {
	ID             string   `json:"id"`
	OwnerID        string   `json:"owner_id"`
	CourtName      string   `json:"court_name"`
	Address        string   `json:"address"`
	Sports         []string `json:"sports"`
	Amenities      []string `json:"amenities"`
	RateCents      int64    `json:"hourly_rate_cents"`
	Currency       string   `json:"currency"`
	OperatingDays  string   `json:"operating_days"`
	OperatingHours string   `json:"operating_hours"`
	Photos         []string `json:"photos"`

	Rating        *float64 `json:"rating"`
	TotalBookings int64    `json:"total_bookings"`
	TotalRevenue  int64    `json:"total_revenue_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(v *domainvenue.Venue) VenueView {
	return VenueView{
		ID:             string(v.ID),
		OwnerID:        string(v.OwnerID),
		CourtName:      v.CourtName,
		Address:        v.Address,
		Sports:         append([]string(nil), v.Sports...),
		Amenities:      append([]string(nil), v.Amenities...),
		RateCents:      v.HourlyRate.Cents,
		Currency:       v.HourlyRate.Currency,
		OperatingDays:  v.OperatingDays.String(),
		OperatingHours: v.OperatingHours.String(),
		Photos:         append([]string(nil), v.Photos...),
		Rating:         v.Rating,
		TotalBookings:  v.TotalBookings,
		TotalRevenue:   v.TotalRevenue.Cents,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
