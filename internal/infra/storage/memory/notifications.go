package memory

import (
	"context"
	"sort"
	"sync"

	"courtside/internal/domain/notification"
	domainuser "courtside/internal/domain/user"
)

// NotificationRepository keeps per-recipient notification records.
type NotificationRepository struct {
	mu    sync.RWMutex
	items map[notification.NotificationID]*notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[notification.NotificationID]*notification.Notification)}
}

func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *n
	r.items[n.ID] = &c
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID domainuser.UserID, unreadOnly bool) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*notification.Notification
	for _, n := range r.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id notification.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return notification.ErrNotFound
	}
	n.Read = true
	return nil
}
