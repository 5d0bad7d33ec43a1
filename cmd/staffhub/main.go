package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/staffhub/staffhub/internal/api/ws"
	"github.com/staffhub/staffhub/internal/audit"
	"github.com/staffhub/staffhub/internal/auth"
	"github.com/staffhub/staffhub/internal/config"
	"github.com/staffhub/staffhub/internal/metrics"
	"github.com/staffhub/staffhub/internal/notify"
	"github.com/staffhub/staffhub/internal/server"
	"github.com/staffhub/staffhub/internal/store/postgres"
	redisstore "github.com/staffhub/staffhub/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("STAFFHUB_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("STAFFHUB_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Apply pending schema migrations before opening the pool.
	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		return err
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Ensure the attachment directory exists.
	if err := os.MkdirAll(cfg.Uploads.Dir, 0o750); err != nil {
		return fmt.Errorf("uploads dir: %w", err)
	}

	// Auth service and the audit/revert machinery.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	recorder := audit.NewRecorder(store.Audit())

	engine := audit.NewEngine(store.Audit(), recorder)
	engine.RegisterApplier("Candidate", store.Candidates())

	hub := ws.NewHub(pubsub)
	cache := redisstore.NewCache(pubsub.Client(), "staffhub:cache:", cfg.Cache.TTL)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Slack.BotToken != "" {
		notifier = notify.NewSlackNotifier(slacklib.New(cfg.Slack.BotToken), cfg.Slack.Channel)
		log.Info().Str("channel", cfg.Slack.Channel).Msg("Slack notifications enabled")
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, server.Deps{
		Store:    store,
		Auth:     authSvc,
		Recorder: recorder,
		Reverter: engine,
		Hub:      hub,
		Cache:    cache,
		Notifier: notifier,
		Metrics:  metrics.New(),
	})

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
