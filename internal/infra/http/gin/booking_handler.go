package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingapp "courtside/internal/app/handlers/booking"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	UpdateStatus(c *gin.Context)
	MyBookings(c *gin.Context)
	VenueBookings(c *gin.Context)
	Availability(c *gin.Context)
}

type BookingHandler struct {
	Creator    *bookingapp.CreateBookingHandler
	Transition *bookingapp.TransitionStatusHandler
	Lists      *bookingapp.ListBookingsHandler
	Checker    *bookingapp.CheckAvailabilityHandler
}

type createBookingRequest struct {
	VenueID   string `json:"venue_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Hours     int    `json:"hours"`
	PayMethod string `json:"pay_method"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Creator.Handle(c.Request.Context(), bookingapp.CreateBookingCommand{
		BookingID: uuid.NewString(),
		VenueID:   req.VenueID,
		PlayerID:  user.ID,
		Date:      req.Date,
		StartTime: req.StartTime,
		Hours:     req.Hours,
		PayMethod: req.PayMethod,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Transition.Handle(c.Request.Context(), bookingapp.TransitionStatusCommand{
		BookingID: c.Param("id"),
		ActorID:   user.ID,
		Next:      req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	result, err := h.Lists.HandlePlayer(c.Request.Context(), bookingapp.ListPlayerBookingsQuery{
		PlayerID: user.ID,
		Status:   c.Query("status"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) VenueBookings(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	result, err := h.Lists.HandleVenue(c.Request.Context(), bookingapp.ListVenueBookingsQuery{
		VenueID: c.Param("id"),
		ActorID: user.ID,
		Status:  c.Query("status"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Availability(c *gin.Context) {
	hours := 0
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hours"})
			return
		}
		hours = parsed
	}
	result, err := h.Checker.Handle(c.Request.Context(), bookingapp.CheckAvailabilityQuery{
		VenueID:   c.Param("id"),
		Date:      c.Query("date"),
		StartTime: c.Query("start_time"),
		Hours:     hours,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
