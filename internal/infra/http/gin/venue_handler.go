package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	venuesapp "courtside/internal/app/handlers/venues"
)

type VenueHTTP interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	UploadPhoto(c *gin.Context)
	MyVenues(c *gin.Context)
}

type VenueHandler struct {
	Creator  *venuesapp.CreateVenueHandler
	Updater  *venuesapp.UpdateVenueHandler
	Deleter  *venuesapp.DeleteVenueHandler
	Searcher *venuesapp.SearchVenuesHandler
	Photos   *venuesapp.UploadPhotoHandler
}

func (h VenueHandler) Search(c *gin.Context) {
	minRate, err := parseInt64Query(c, "min_rate_cents")
	if err != nil {
		return
	}
	maxRate, err := parseInt64Query(c, "max_rate_cents")
	if err != nil {
		return
	}
	minRating := 0.0
	if raw := c.Query("min_rating"); raw != "" {
		minRating, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rating"})
			return
		}
	}
	result, err := h.Searcher.Search(c.Request.Context(), venuesapp.SearchVenuesQuery{
		Sport:        c.Query("sport"),
		MinRateCents: minRate,
		MaxRateCents: maxRate,
		MinRating:    minRating,
		Query:        c.Query("q"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VenueHandler) Get(c *gin.Context) {
	result, err := h.Searcher.Get(c.Request.Context(), venuesapp.GetVenueQuery{VenueID: c.Param("id")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createVenueRequest struct {
	CourtName      string   `json:"court_name"`
	Address        string   `json:"address"`
	Sports         []string `json:"sports"`
	Amenities      []string `json:"amenities"`
	RateCents      int64    `json:"hourly_rate_cents"`
	Currency       string   `json:"currency"`
	OperatingDays  string   `json:"operating_days"`
	OperatingHours string   `json:"operating_hours"`
}

func (h VenueHandler) Create(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req createVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Creator.Handle(c.Request.Context(), venuesapp.CreateVenueCommand{
		OwnerID:        user.ID,
		CourtName:      req.CourtName,
		Address:        req.Address,
		Sports:         req.Sports,
		Amenities:      req.Amenities,
		RateCents:      req.RateCents,
		Currency:       req.Currency,
		OperatingDays:  req.OperatingDays,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateVenueRequest struct {
	CourtName      *string  `json:"court_name"`
	Address        *string  `json:"address"`
	Sports         []string `json:"sports"`
	Amenities      []string `json:"amenities"`
	RateCents      *int64   `json:"hourly_rate_cents"`
	Currency       string   `json:"currency"`
	OperatingDays  *string  `json:"operating_days"`
	OperatingHours *string  `json:"operating_hours"`
}

func (h VenueHandler) Update(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Updater.Handle(c.Request.Context(), venuesapp.UpdateVenueCommand{
		VenueID:        c.Param("id"),
		ActorID:        user.ID,
		CourtName:      req.CourtName,
		Address:        req.Address,
		Sports:         req.Sports,
		Amenities:      req.Amenities,
		RateCents:      req.RateCents,
		Currency:       req.Currency,
		OperatingDays:  req.OperatingDays,
		OperatingHours: req.OperatingHours,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VenueHandler) Delete(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	err := h.Deleter.Handle(c.Request.Context(), venuesapp.DeleteVenueCommand{
		VenueID: c.Param("id"),
		ActorID: user.ID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h VenueHandler) UploadPhoto(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()
	result, err := h.Photos.Handle(c.Request.Context(), venuesapp.UploadPhotoCommand{
		VenueID:     c.Param("id"),
		ActorID:     user.ID,
		ObjectKey:   c.Param("id") + "/" + header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h VenueHandler) MyVenues(c *gin.Context) {
	user, ok := requireAuth(c)
	if !ok {
		return
	}
	result, err := h.Searcher.ListOwner(c.Request.Context(), venuesapp.ListOwnerVenuesQuery{OwnerID: user.ID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseInt64Query(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, err
	}
	return v, nil
}

var _ VenueHTTP = VenueHandler{}
