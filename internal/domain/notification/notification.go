package notification

import (
	"context"
	"errors"
	"time"

	"courtside/internal/domain/user"
)

var ErrNotFound = errors.New("notification: not found")

type NotificationID string

// Notification is the persisted per-recipient record the emitter writes
// alongside the real-time push; delivery state is the emitter's concern, not
// the booking core's.
type Notification struct {
	ID        NotificationID
	UserID    user.UserID
	Kind      string
	Title     string
	Message   string
	Data      map[string]any
	Read      bool
	CreatedAt time.Time
}

type Repository interface {
	Save(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID user.UserID, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id NotificationID) error
}
