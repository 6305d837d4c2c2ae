package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "courtside/internal/app/outbox"
	infraoutbox "courtside/internal/infra/outbox"
)

// Outbox is the in-memory event queue. It doubles as the application-side
// sink (Add) and the worker-side store (Claim/MarkSent/MarkFailed).
type Outbox struct {
	mu      sync.Mutex
	pending []*infraoutbox.EventDocument
	claimed map[string]*infraoutbox.EventDocument
	retryAt map[string]time.Time
	sent    []*infraoutbox.EventDocument
}

func NewOutbox() *Outbox {
	return &Outbox{
		claimed: make(map[string]*infraoutbox.EventDocument),
		retryAt: make(map[string]time.Time),
	}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, &infraoutbox.EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		Aggregate:  record.Aggregate,
		OccurredAt: record.OccurredAt,
		Headers:    record.Headers,
	})
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error { return nil }

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for i, doc := range o.pending {
		if deferred, ok := o.retryAt[doc.ID]; ok && deferred.After(now) {
			continue
		}
		o.pending = append(o.pending[:i], o.pending[i+1:]...)
		o.claimed[doc.ID] = doc
		return doc, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if doc, ok := o.claimed[id]; ok {
		delete(o.claimed, id)
		o.sent = append(o.sent, doc)
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if doc, ok := o.claimed[id]; ok {
		delete(o.claimed, id)
		doc.Attempts++
		o.pending = append(o.pending, doc)
		o.retryAt[doc.ID] = retryAt
	}
	return nil
}

// Sent returns delivered documents, oldest first. Test helper.
func (o *Outbox) Sent() []*infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*infraoutbox.EventDocument(nil), o.sent...)
}

// Pending returns undelivered documents, oldest first. Test helper.
func (o *Outbox) Pending() []*infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*infraoutbox.EventDocument(nil), o.pending...)
}
