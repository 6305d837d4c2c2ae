package locks

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy means the lock could not be acquired within the bounded wait.
var ErrBusy = errors.New("locks: lock wait timed out")

const DefaultWait = 2 * time.Second

// Keyed serializes critical sections per string key with a bounded wait, so
// the check-then-write for one (venue, date) never blocks requests against
// other venues or dates.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

type entry struct {
	sem  chan struct{}
	refs int
}

func NewKeyed(wait time.Duration) *Keyed {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Keyed{entries: make(map[string]*entry), wait: wait}
}

// Acquire takes the lock for key, waiting at most the configured bound.
// It returns a release func on success and ErrBusy on timeout.
func (k *Keyed) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	timer := time.NewTimer(k.wait)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			k.put(key, e)
		}, nil
	case <-timer.C:
		k.put(key, e)
		return nil, ErrBusy
	case <-ctx.Done():
		k.put(key, e)
		return nil, ctx.Err()
	}
}

func (k *Keyed) put(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}
