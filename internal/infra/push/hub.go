package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtside/internal/app/notify"
	"courtside/internal/domain/notification"
)

// Hub is the notify.Emitter used in process: it persists one notification
// record per recipient and fans the event out to live subscribers. Failures
// are logged and swallowed, the write path that produced the event has
// already committed.
type Hub struct {
	Registry      *Registry
	Notifications notification.Repository
	Logger        *slog.Logger
}

func NewHub(registry *Registry, repo notification.Repository, logger *slog.Logger) *Hub {
	return &Hub{Registry: registry, Notifications: repo, Logger: logger}
}

func (h *Hub) Emit(ctx context.Context, ev notify.Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if h.Notifications != nil {
		data := asMap(ev.Data)
		for _, uid := range ev.Recipients {
			n := &notification.Notification{
				ID:        notification.NotificationID(uuid.NewString()),
				UserID:    uid,
				Kind:      ev.Kind,
				Title:     ev.Title,
				Message:   ev.Message,
				Data:      data,
				CreatedAt: ev.Timestamp,
			}
			if err := h.Notifications.Save(ctx, n); err != nil && h.Logger != nil {
				h.Logger.Error("notification store failed", "kind", ev.Kind, "user_id", uid, "error", err)
			}
		}
	}
	if h.Registry != nil {
		h.Registry.Publish(ev)
	}
}

func asMap(data any) map[string]any {
	if data == nil {
		return nil
	}
	if m, ok := data.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
