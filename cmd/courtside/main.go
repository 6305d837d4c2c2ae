package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"courtside/internal/app/aggregates"
	bookingapp "courtside/internal/app/handlers/booking"
	reviewsapp "courtside/internal/app/handlers/reviews"
	statsapp "courtside/internal/app/handlers/stats"
	venuesapp "courtside/internal/app/handlers/venues"
	"courtside/internal/app/locks"
	appoutbox "courtside/internal/app/outbox"
	"courtside/internal/app/services/auth"
	"courtside/internal/app/uow"
	domainauth "courtside/internal/domain/auth"
	"courtside/internal/domain/notification"
	domainuser "courtside/internal/domain/user"
	kafkabroker "courtside/internal/infra/broker/kafka"
	"courtside/internal/infra/config"
	mongostore "courtside/internal/infra/db/mongo"
	ginserver "courtside/internal/infra/http/gin"
	"courtside/internal/infra/obs"
	infraoutbox "courtside/internal/infra/outbox"
	"courtside/internal/infra/push"
	"courtside/internal/infra/security"
	"courtside/internal/infra/storage/memory"
	"courtside/internal/infra/storage/s3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	st, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	registry := push.NewRegistry()
	hub := push.NewHub(registry, st.notifications, logger)

	maintainer := aggregates.NewMaintainer(st.factory, logger)
	go maintainer.Run(ctx, cfg.ReconcileInterval)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil, logger)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		worker := &infraoutbox.Worker{
			Store:       st.outboxStore,
			Producer:    producer,
			Interval:    cfg.OutboxPoll,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	} else {
		logger.Info("kafka brokers not configured, outbox relay disabled")
	}

	uploader, err := buildUploader(cfg, logger)
	if err != nil {
		logger.Error("object storage init failed", "error", err)
		os.Exit(1)
	}

	authService := &auth.Service{
		Users:      st.users,
		Sessions:   st.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	encoder := appoutbox.JSONEventEncoder{}
	bookingLocks := locks.NewKeyed(cfg.LockWait)

	handlers := ginserver.Handlers{
		Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
		Venue: ginserver.VenueHandler{
			Creator: &venuesapp.CreateVenueHandler{
				UoWFactory: st.factory,
				Outbox:     st.outbox,
				Encoder:    encoder,
			},
			Updater: &venuesapp.UpdateVenueHandler{
				UoWFactory: st.factory,
				Outbox:     st.outbox,
				Encoder:    encoder,
				Emitter:    hub,
			},
			Deleter:  &venuesapp.DeleteVenueHandler{UoWFactory: st.factory},
			Searcher: &venuesapp.SearchVenuesHandler{UoWFactory: st.factory},
			Photos: &venuesapp.UploadPhotoHandler{
				UoWFactory: st.factory,
				Uploader:   uploader,
				Logger:     logger,
			},
		},
		Booking: ginserver.BookingHandler{
			Creator: &bookingapp.CreateBookingHandler{
				UoWFactory: st.factory,
				Locks:      bookingLocks,
				Outbox:     st.outbox,
				Encoder:    encoder,
				Emitter:    hub,
			},
			Transition: &bookingapp.TransitionStatusHandler{
				UoWFactory: st.factory,
				Outbox:     st.outbox,
				Encoder:    encoder,
				Emitter:    hub,
				Stats:      maintainer,
			},
			Lists:   &bookingapp.ListBookingsHandler{UoWFactory: st.factory},
			Checker: &bookingapp.CheckAvailabilityHandler{UoWFactory: st.factory},
		},
		Review: ginserver.ReviewHandler{
			Submitter: &reviewsapp.SubmitReviewHandler{
				UoWFactory: st.factory,
				Outbox:     st.outbox,
				Encoder:    encoder,
				Emitter:    hub,
				Rating:     maintainer,
			},
			Lister: &reviewsapp.ListReviewsHandler{UoWFactory: st.factory},
		},
		Stats: ginserver.StatsHandler{
			Dashboards: &statsapp.DashboardHandler{UoWFactory: st.factory},
		},
		Notifications: ginserver.NotificationHandler{
			Repo:     st.notifications,
			Registry: registry,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		ReadyCheck: st.ready,
	}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// storage bundles the persistence ports main wires into the application.
// Both drivers satisfy the same set, so handler wiring below is driver-blind.
type storage struct {
	factory       uow.Factory
	outbox        appoutbox.Outbox
	outboxStore   infraoutbox.Store
	users         domainuser.Repository
	sessions      domainauth.SessionStore
	notifications notification.Repository
	ready         func(ctx context.Context) error
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		return buildMongoStorage(ctx, cfg, logger)
	case config.StorageMemory:
		return buildMemoryStorage(), nil
	default:
		return storage{}, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
	}
}

func buildMemoryStorage() storage {
	factory := memory.NewFactory()
	box := memory.NewOutbox()
	return storage{
		factory:       factory,
		outbox:        box,
		outboxStore:   box,
		users:         factory.UserRepo,
		sessions:      memory.NewSessionStore(),
		notifications: memory.NewNotificationRepository(),
		ready:         func(context.Context) error { return nil },
	}
}

func buildMongoStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, err
	}

	users := mongostore.NewUserRepository(client.DB)
	sessions := mongostore.NewSessionStore(client.DB)
	reviews := mongostore.NewReviewRepository(client.DB)
	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{users, sessions, reviews} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			logger.Warn("index creation failed", "error", err)
		}
	}

	box := mongostore.NewOutboxStore(client.DB)
	return storage{
		factory: mongostore.Factory{
			DB:          client.DB,
			VenueRepo:   mongostore.NewVenueRepository(client.DB),
			BookingRepo: mongostore.NewBookingRepository(client.DB),
			PaymentRepo: mongostore.NewPaymentRepository(client.DB),
			ReviewRepo:  reviews,
			UserRepo:    users,
		},
		outbox:        box,
		outboxStore:   box,
		users:         users,
		sessions:      sessions,
		notifications: mongostore.NewNotificationRepository(client.DB),
		ready:         client.Ping,
	}, nil
}

func buildUploader(cfg config.Config, logger *slog.Logger) (s3.Uploader, error) {
	if cfg.S3Endpoint == "" {
		logger.Info("S3 endpoint not configured, photo uploads disabled")
		return s3.NoopUploader{}, nil
	}
	return s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
}
