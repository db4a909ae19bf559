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

	"roomly/internal/app/services/assets"
	authsvc "roomly/internal/app/services/auth"
	roomsvc "roomly/internal/app/services/rooms"
	domainauth "roomly/internal/domain/auth"
	domainrooms "roomly/internal/domain/rooms"
	domainuser "roomly/internal/domain/user"
	"roomly/internal/infra/broker/kafka"
	"roomly/internal/infra/config"
	mongodb "roomly/internal/infra/db/mongo"
	ginserver "roomly/internal/infra/http/gin"
	"roomly/internal/infra/obs"
	"roomly/internal/infra/security"
	"roomly/internal/infra/storage/memory"
	"roomly/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	deps := buildDependencies(ctx, cfg, logger)
	defer deps.close(logger)

	authService := &authsvc.Service{
		Users:      deps.users,
		Sessions:   deps.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	assetManager := &assets.Manager{
		Uploader: deps.uploader,
		Bucket:   cfg.S3Bucket,
		Logger:   logger,
	}
	roomService := &roomsvc.Service{
		Rooms:  deps.rooms,
		Assets: assetManager,
		Events: deps.events,
		Logger: logger,
	}

	sessionMW := ginserver.SessionMiddleware{
		Service:    authService,
		CookieName: cfg.SessionCookieName,
		Secure:     cfg.CookieSecure,
		Logger:     logger,
	}
	handlers := ginserver.Handlers{
		Auth: ginserver.AuthHandler{
			Service:    authService,
			CookieName: cfg.SessionCookieName,
			Secure:     cfg.CookieSecure,
			SessionTTL: cfg.SessionTTL,
			Logger:     logger,
		},
		Rooms:             ginserver.RoomHandler{Service: roomService, Logger: logger},
		OwnerRooms:        ginserver.OwnerRoomHandler{Service: roomService, Logger: logger},
		SessionMiddleware: sessionMW.Handle,
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: deps.ready}, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type dependencies struct {
	rooms    domainrooms.Repository
	users    domainuser.Repository
	sessions domainauth.SessionStore
	uploader assets.Uploader
	events   roomsvc.EventPublisher
	ready    func() error

	mongoClient   *mongodb.Client
	kafkaProducer *kafka.Producer
}

func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) *dependencies {
	deps := &dependencies{ready: func() error { return nil }}

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		deps.mongoClient = client
		userRepo := mongodb.NewUserRepository(client.DB)
		sessionStore := mongodb.NewSessionStore(client.DB)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			logger.Warn("user index setup failed", "error", err)
		}
		if err := sessionStore.EnsureIndexes(ctx); err != nil {
			logger.Warn("session index setup failed", "error", err)
		}
		deps.rooms = mongodb.NewRoomRepository(client.DB)
		deps.users = userRepo
		deps.sessions = sessionStore
		deps.ready = func() error { return client.Ping(context.Background()) }
	} else {
		logger.Warn("MONGO_URI not set, using in-memory stores")
		deps.rooms = memory.NewRoomRepository()
		deps.users = memory.NewUserRepository()
		deps.sessions = memory.NewSessionStore()
	}

	uploader, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object store unavailable, using in-memory uploads", "error", err)
		deps.uploader = memory.NewUploader(cfg.S3Bucket, cfg.S3PublicEndpoint)
	} else {
		deps.uploader = uploader
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Warn("kafka unavailable, room events disabled", "error", err)
		} else {
			deps.kafkaProducer = producer
			deps.events = &kafka.RoomEventPublisher{Producer: producer, Topic: cfg.KafkaEventsTopic}
		}
	}

	return deps
}

func (d *dependencies) close(logger *slog.Logger) {
	if d.kafkaProducer != nil {
		if err := d.kafkaProducer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if d.mongoClient != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.mongoClient.Close(closeCtx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}
