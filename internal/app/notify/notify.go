package notify

import (
	"context"
	"time"

	"courtside/internal/domain/user"
	"courtside/internal/domain/venue"
)

// Event is a decided payload handed to the emitter after the core has
// committed its write. Recipients are addressed directly; VenueID, when set,
// additionally broadcasts to everyone watching that venue.
type Event struct {
	Kind       string        `json:"kind"`
	Recipients []user.UserID `json:"recipients,omitempty"`
	VenueID    venue.VenueID `json:"venue_id,omitempty"`
	Title      string        `json:"title,omitempty"`
	Message    string        `json:"message,omitempty"`
	Data       any           `json:"data"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Emitter delivers events out-of-band. It never influences booking
// decisions; implementations must not return delivery failures into the
// calling write path.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// Nop drops every event; used where no emitter is wired.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
