package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/codequest-gg/gameserver/config"
	"github.com/codequest-gg/gameserver/internal/catalog"
	"github.com/codequest-gg/gameserver/internal/db"
	"github.com/codequest-gg/gameserver/internal/game"
	"github.com/codequest-gg/gameserver/internal/handlers"
	"github.com/codequest-gg/gameserver/internal/mq"
	"github.com/codequest-gg/gameserver/internal/services"
	"github.com/codequest-gg/gameserver/internal/storage"
	"github.com/codequest-gg/gameserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	playerRepo := store.NewPlayerRepository(dbConn)
	playerService := services.NewPlayerService(playerRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	sandboxTimeout := time.Duration(cfg.Sandbox.TimeoutMS) * time.Millisecond
	registry := game.NewRegistry(cat, playerService, sandboxTimeout)

	broker, err := newBroker(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if broker != nil {
		registry.SetEventPublisher(broker, cfg.MQ.CompletedChannel)
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, playerService, jwtSecret)
	})
	router.Route("/challenges", func(r chi.Router) {
		handlers.ChallengeRouter(r, cat, registry, authMiddleware)
	})
	router.Route("/game", func(r chi.Router) {
		handlers.GameRouter(r, registry, authMiddleware)
	})
	router.Route("/leaderboard", func(r chi.Router) {
		handlers.LeaderboardRouter(r, playerService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.broker != nil {
		_ = s.broker.Close()
	}
	return s.httpServer.Close()
}

// loadCatalog fetches the challenge catalog from object storage when
// both a backend and an object key are configured, and falls back to
// the local file otherwise.
func loadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.ObjectKey != "" && cfg.Storage.Backend != "" {
		objectStore, err := newObjectStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return catalog.LoadObject(ctx, objectStore, cfg.Catalog.ObjectKey)
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

func newObjectStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		return storage.NewStorage(client), nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		return storage.NewStorage(client), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newBroker constructs the completion-event broker, or nil when events
// are disabled.
func newBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.MQ.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.MQ.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}
