package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	reviewsapp "courtside/internal/app/handlers/reviews"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	List(c *gin.Context)
}

type ReviewHandler struct {
	Submitter *reviewsapp.SubmitReviewHandler
	Lister    *reviewsapp.ListReviewsHandler
}

type submitReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Submitter.Handle(c.Request.Context(), reviewsapp.SubmitReviewCommand{
		VenueID:   c.Param("id"),
		AuthorID:  user.ID,
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReviewHandler) List(c *gin.Context) {
	result, err := h.Lister.Handle(c.Request.Context(), reviewsapp.ListReviewsQuery{VenueID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}
