package push

import (
	"sync"

	"courtside/internal/app/notify"
	"courtside/internal/domain/user"
	"courtside/internal/domain/venue"
)

// Registry tracks live subscriber channels per user and per venue room.
// Delivery is best effort: a subscriber that cannot keep up has the event
// dropped rather than blocking the publisher.
type Registry struct {
	mu     sync.RWMutex
	users  map[user.UserID]map[chan notify.Event]struct{}
	venues map[venue.VenueID]map[chan notify.Event]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		users:  make(map[user.UserID]map[chan notify.Event]struct{}),
		venues: make(map[venue.VenueID]map[chan notify.Event]struct{}),
	}
}

const subscriberBuffer = 16

// Subscribe opens a channel that receives events addressed to the user.
// The caller must call the returned cancel func when done.
func (r *Registry) Subscribe(id user.UserID) (<-chan notify.Event, func()) {
	ch := make(chan notify.Event, subscriberBuffer)
	r.mu.Lock()
	set, ok := r.users[id]
	if !ok {
		set = make(map[chan notify.Event]struct{})
		r.users[id] = set
	}
	set[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if set, ok := r.users[id]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(r.users, id)
			}
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// JoinVenue subscribes a channel to a venue room, used for activity feeds
// scoped to a single venue.
func (r *Registry) JoinVenue(id venue.VenueID) (<-chan notify.Event, func()) {
	ch := make(chan notify.Event, subscriberBuffer)
	r.mu.Lock()
	set, ok := r.venues[id]
	if !ok {
		set = make(map[chan notify.Event]struct{})
		r.venues[id] = set
	}
	set[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if set, ok := r.venues[id]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(r.venues, id)
			}
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// Online reports whether the user has at least one live subscription.
func (r *Registry) Online(id user.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[id]) > 0
}

// Publish fans the event out to every recipient's channels and to the venue
// room when the event carries a venue.
func (r *Registry) Publish(ev notify.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, uid := range ev.Recipients {
		for ch := range r.users[uid] {
			select {
			case ch <- ev:
			default:
			}
		}
	}
	if ev.VenueID != "" {
		for ch := range r.venues[ev.VenueID] {
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
