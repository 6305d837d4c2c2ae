package review

import (
	"courtside/internal/domain/shared/events"
	"courtside/internal/domain/user"
	"courtside/internal/domain/venue"
)

const EventReviewCreated = "review_created"

type ReviewCreated struct {
	events.BaseEvent
	ReviewID ReviewID      `json:"review_id"`
	VenueID  venue.VenueID `json:"venue_id"`
	AuthorID user.UserID   `json:"author_id"`
	Rating   int           `json:"rating"`
}
