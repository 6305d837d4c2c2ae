package venue

import (
	"courtside/internal/domain/shared/events"
	"courtside/internal/domain/user"
)

const EventVenueUpdated = "venue_updated"

type VenueUpdated struct {
	events.BaseEvent
	VenueID VenueID     `json:"venue_id"`
	OwnerID user.UserID `json:"owner_id"`
}
