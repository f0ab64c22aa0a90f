package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/config"
	"github.com/gameup-app/gameup-backend/internal/delivery/httpd"
	"github.com/gameup-app/gameup-backend/internal/repository"
	"github.com/gameup-app/gameup-backend/internal/service"
	"github.com/gameup-app/gameup-backend/internal/service/integration"
	"github.com/gameup-app/gameup-backend/internal/service/storage"
	"github.com/gameup-app/gameup-backend/pkg/token"
)

type App struct {
	server *http.Server
	logger zerolog.Logger
	config *config.Config
	db     *sql.DB
	events integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	store, localDir, err := newStorage(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	var events integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		events, err = integration.NewRabbitMQPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create RabbitMQ publisher, continuing without events")
			events = nil
		}
	}

	tokens := token.NewManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	userRepo := repository.NewUserRepository(db, log)
	taskRepo := repository.NewTaskRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	notificationRepo := repository.NewNotificationRepository(db, log)

	authService := service.NewAuthService(userRepo, tokens, log)
	taskService := service.NewTaskService(taskRepo, userRepo, log)
	submissionService := service.NewSubmissionService(
		submissionRepo,
		taskRepo,
		userRepo,
		store,
		events,
		service.UploadPolicy{
			MaxSize:           cfg.Storage.MaxUploadSize,
			AllowedExtensions: cfg.Storage.AllowedExtensions,
		},
		log,
	)
	summaryService := service.NewSummaryService(submissionRepo, userRepo, log)
	userService := service.NewUserService(userRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, log)

	handler := httpd.NewHandler(
		authService,
		taskService,
		submissionService,
		summaryService,
		userService,
		notificationService,
		tokens,
		cfg.Storage.MaxUploadSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	// Uploaded attachments are served statically when stored on local disk.
	if localDir != "" {
		prefix := cfg.Storage.URLPrefix
		router.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(localDir))))
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server: server,
		logger: log,
		config: cfg,
		db:     db,
		events: events,
	}, nil
}

func newStorage(cfg config.StorageConfig, log zerolog.Logger) (storage.Storage, string, error) {
	switch cfg.Provider {
	case "minio":
		store, err := storage.NewMinIOStorage(cfg.MinIO, log)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		store, err := storage.NewLocalStorage(cfg.LocalDir, cfg.URLPrefix, log)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting GameUP backend on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down GameUP backend...")

	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
