package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"courtside/internal/infra/config"
	"courtside/internal/infra/obs"
)

type Handlers struct {
	Auth          AuthHTTP
	Venue         VenueHTTP
	Booking       BookingHTTP
	Review        ReviewHTTP
	Stats         StatsHTTP
	Notifications NotificationHTTP

	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Venue != nil {
		api.GET("/venues", h.Venue.Search)
		api.POST("/venues", h.Venue.Create)
		api.GET("/venues/:id", h.Venue.Get)
		api.PUT("/venues/:id", h.Venue.Update)
		api.DELETE("/venues/:id", h.Venue.Delete)
		api.POST("/venues/:id/photos", h.Venue.UploadPhoto)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.PATCH("/bookings/:id/status", h.Booking.UpdateStatus)
		api.GET("/me/bookings", h.Booking.MyBookings)
		api.GET("/venues/:id/bookings", h.Booking.VenueBookings)
		api.GET("/venues/:id/availability", h.Booking.Availability)
	}
	if h.Review != nil {
		api.POST("/venues/:id/reviews", h.Review.Submit)
		api.GET("/venues/:id/reviews", h.Review.List)
	}
	if h.Stats != nil {
		hostGroup := api.Group("/host")
		hostGroup.GET("/dashboard", h.Stats.Dashboard)
		if h.Venue != nil {
			hostGroup.GET("/venues", h.Venue.MyVenues)
		}
	}
	if h.Notifications != nil {
		meGroup := api.Group("/me/notifications")
		meGroup.GET("", h.Notifications.List)
		meGroup.POST("/:id/read", h.Notifications.MarkRead)
		meGroup.GET("/stream", h.Notifications.Stream)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
