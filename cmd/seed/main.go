package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/app"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage/sqlstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	dir := flag.String("dir", cfg.Seed.Dir, "directory holding users.json and properties.json")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	log.Info().
		Str("dir", *dir).
		Int("workers", cfg.Seed.Workers).
		Int("rps", cfg.Seed.RPS).
		Msg("seeder starting")

	db, dialect, err := sqlstore.Open(ctx, cfg.Database, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	rep, err := seed(ctx, db, dialect, cfg.Seed, *dir)
	if err != nil {
		log.Error().Err(err).Msg("seeding stopped")
		stop()
		os.Exit(1)
	}
	log.Info().
		Int("users_added", rep.UsersAdded).
		Int("users_existing", rep.UsersExisting).
		Int("users_failed", rep.UsersFailed).
		Int("properties_added", rep.PropertiesAdded).
		Int("properties_failed", rep.PropertiesFailed).
		Msg("seeding completed")
}

// seed runs the fixture load and closes db whatever the outcome.
func seed(ctx context.Context, db *sql.DB, d sqlstore.Dialect, cfg shared.SeedConfig, dir string) (app.SeedReport, error) {
	defer db.Close()

	repo := sqlstore.New(db, d, log.Logger)
	seeder := app.NewSeedService(repo, app.SeedOptions{Workers: cfg.Workers, RPS: cfg.RPS})
	return seeder.SeedDir(ctx, dir)
}
