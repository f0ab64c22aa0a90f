package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/app"
	"github.com/gameup-app/gameup-backend/internal/config"
	"github.com/gameup-app/gameup-backend/internal/database"
	"github.com/gameup-app/gameup-backend/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log = logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrations(cfg, log, os.Args[2:])
		return
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatal().Err(err).Msg("Database is unreachable")
	}
	pingCancel()

	application, err := app.New(cfg, log, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

func runMigrations(cfg *config.Config, log zerolog.Logger, args []string) {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	direction := migrateCmd.String("direction", "up", "migration direction: up or down")
	if err := migrateCmd.Parse(args); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse migrate flags")
	}

	migrator, err := database.NewMigrator(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}

	switch *direction {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	default:
		log.Fatal().Str("direction", *direction).Msg("Unknown migration direction")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Str("direction", *direction).Msg("Migrations applied successfully")
}
