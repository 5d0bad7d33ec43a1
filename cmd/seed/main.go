package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/staffhub/internal/config"
	"github.com/staffhub/staffhub/internal/seed"
	"github.com/staffhub/staffhub/internal/store/postgres"
)

// Seeds a development database with one account per role and a small data
// set. Safe to run more than once.
func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		return err
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seed.Run(ctx, store); err != nil {
		return err
	}

	log.Info().Str("password", seed.DefaultPassword).Msg("seed complete; all accounts share the default password")
	return nil
}
