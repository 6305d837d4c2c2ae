package ginserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"courtside/internal/app/aggregates"
	bookingapp "courtside/internal/app/handlers/booking"
	reviewsapp "courtside/internal/app/handlers/reviews"
	statsapp "courtside/internal/app/handlers/stats"
	venuesapp "courtside/internal/app/handlers/venues"
	"courtside/internal/app/locks"
	appoutbox "courtside/internal/app/outbox"
	authsvc "courtside/internal/app/services/auth"
	"courtside/internal/infra/config"
	"courtside/internal/infra/obs"
	"courtside/internal/infra/push"
	"courtside/internal/infra/security"
	"courtside/internal/infra/storage/memory"
)

type testServer struct {
	http *http.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	factory := memory.NewFactory()
	box := memory.NewOutbox()
	notifications := memory.NewNotificationRepository()
	registry := push.NewRegistry()
	hub := push.NewHub(registry, notifications, nil)
	maintainer := aggregates.NewMaintainer(factory, nil)
	encoder := appoutbox.JSONEventEncoder{}

	service := &authsvc.Service{
		Users:      factory.UserRepo,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}

	handlers := Handlers{
		Auth: AuthHandler{Service: service},
		Venue: VenueHandler{
			Creator:  &venuesapp.CreateVenueHandler{UoWFactory: factory, Outbox: box, Encoder: encoder},
			Updater:  &venuesapp.UpdateVenueHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Emitter: hub},
			Deleter:  &venuesapp.DeleteVenueHandler{UoWFactory: factory},
			Searcher: &venuesapp.SearchVenuesHandler{UoWFactory: factory},
			Photos:   &venuesapp.UploadPhotoHandler{UoWFactory: factory},
		},
		Booking: BookingHandler{
			Creator: &bookingapp.CreateBookingHandler{
				UoWFactory: factory,
				Locks:      locks.NewKeyed(time.Second),
				Outbox:     box,
				Encoder:    encoder,
				Emitter:    hub,
			},
			Transition: &bookingapp.TransitionStatusHandler{
				UoWFactory: factory,
				Outbox:     box,
				Encoder:    encoder,
				Emitter:    hub,
				Stats:      maintainer,
			},
			Lists:   &bookingapp.ListBookingsHandler{UoWFactory: factory},
			Checker: &bookingapp.CheckAvailabilityHandler{UoWFactory: factory},
		},
		Review: ReviewHandler{
			Submitter: &reviewsapp.SubmitReviewHandler{UoWFactory: factory, Outbox: box, Encoder: encoder, Emitter: hub, Rating: maintainer},
			Lister:    &reviewsapp.ListReviewsHandler{UoWFactory: factory},
		},
		Stats:         StatsHandler{Dashboards: &statsapp.DashboardHandler{UoWFactory: factory}},
		Notifications: NotificationHandler{Repo: notifications, Registry: registry},

		AuthMiddleware: AuthMiddleware{Service: service}.Handle,
	}

	srv := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, handlers)
	return &testServer{http: srv}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email, designation string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"full_name":      "Test User",
		"email":          email,
		"contact_number": "555-0100",
		"password":       "correct-horse",
		"designation":    designation,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func (s *testServer) createVenue(t *testing.T, token string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/venues", token, gin.H{
		"court_name":        "Riverside Courts",
		"address":           "12 Embankment Rd",
		"sports":            []string{"badminton"},
		"hourly_rate_cents": 5000,
		"currency":          "USD",
		"operating_hours":   "08:00-22:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.ID
}

func TestBookingFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	ownerToken := s.register(t, "dana@example.com", "facilities")
	playerToken := s.register(t, "alex@example.com", "player")
	venueID := s.createVenue(t, ownerToken)

	booking := gin.H{
		"venue_id":   venueID,
		"date":       "2030-06-10",
		"start_time": "10:00",
		"hours":      2,
		"pay_method": "card",
	}

	rec := s.do(t, http.MethodPost, "/api/v1/bookings", playerToken, booking)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		BookingID   string `json:"booking_id"`
		Status      string `json:"status"`
		AmountCents int64  `json:"amount_cents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, int64(10000), created.AmountCents)

	// Overlapping request conflicts.
	overlap := gin.H{
		"venue_id":   venueID,
		"date":       "2030-06-10",
		"start_time": "11:00",
		"hours":      1,
		"pay_method": "card",
	}
	rec = s.do(t, http.MethodPost, "/api/v1/bookings", playerToken, overlap)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Owner confirms.
	rec = s.do(t, http.MethodPatch, "/api/v1/bookings/"+created.BookingID+"/status", ownerToken, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Player cannot see the host dashboard; the owner can, with totals.
	rec = s.do(t, http.MethodGet, "/api/v1/host/dashboard", playerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/host/dashboard", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dash struct {
		TotalBookings     int64 `json:"total_bookings"`
		TotalRevenueCents int64 `json:"total_revenue_cents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, int64(1), dash.TotalBookings)
	assert.Equal(t, int64(10000), dash.TotalRevenueCents)

	// Availability reflects the confirmed slot.
	rec = s.do(t, http.MethodGet, "/api/v1/venues/"+venueID+"/availability?date=2030-06-10&start_time=10:00&hours=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var avail struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avail))
	assert.False(t, avail.Available)
}

func TestAuthRequiredOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/bookings", "", gin.H{"venue_id": "vn-1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/livez", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVenueValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	playerToken := s.register(t, "alex@example.com", "player")

	rec := s.do(t, http.MethodPost, "/api/v1/venues", playerToken, gin.H{
		"court_name":        "Riverside Courts",
		"address":           "12 Embankment Rd",
		"sports":            []string{"badminton"},
		"hourly_rate_cents": 5000,
		"currency":          "USD",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code, "players cannot list venues")
}
