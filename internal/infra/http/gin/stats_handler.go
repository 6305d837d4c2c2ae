package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	statsapp "courtside/internal/app/handlers/stats"
)

type StatsHTTP interface {
	Dashboard(c *gin.Context)
}

type StatsHandler struct {
	Dashboards *statsapp.DashboardHandler
}

func (h StatsHandler) Dashboard(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	if !user.isOwner() {
		c.JSON(http.StatusForbidden, gin.H{"error": "facilities account required"})
		return
	}
	result, err := h.Dashboards.Handle(c.Request.Context(), statsapp.DashboardQuery{OwnerID: user.ID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ StatsHTTP = StatsHandler{}
