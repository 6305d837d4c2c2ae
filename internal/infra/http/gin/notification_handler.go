package ginserver

import (
	"encoding/json"
	"io"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtside/internal/domain/notification"
	domainuser "courtside/internal/domain/user"
	"courtside/internal/infra/push"
)

type NotificationHTTP interface {
	List(c *gin.Context)
	MarkRead(c *gin.Context)
	Stream(c *gin.Context)
}

type NotificationHandler struct {
	Repo     notification.Repository
	Registry *push.Registry
}

func (h NotificationHandler) List(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread") == "true"
	list, err := h.Repo.ListByUser(c.Request.Context(), domainuser.UserID(user.ID), unreadOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h NotificationHandler) MarkRead(c *gin.Context) {
	if _, ok := requireAuth(c); !ok {
		return
	}
	err := h.Repo.MarkRead(c.Request.Context(), notification.NotificationID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream delivers the caller's events over server-sent events until the
// client disconnects.
func (h NotificationHandler) Stream(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	if h.Registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "streaming unavailable"})
		return
	}
	events, cancel := h.Registry.Subscribe(domainuser.UserID(user.ID))
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				return true
			}
			c.SSEvent(ev.Kind, string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

var _ NotificationHTTP = NotificationHandler{}
