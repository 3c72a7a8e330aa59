package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gridrace/gridrace/internal/localstore"
	"github.com/gridrace/gridrace/internal/reconcile"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := loadConfig(getEnv("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := localstore.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local store")
	}
	defer store.Close()

	clock := clockwork.NewRealClock()
	services := setupServices(cfg, store, clock, log.Logger)

	log.Info().
		Str("api_base_url", cfg.API.BaseURL).
		Str("store_path", cfg.Store.Path).
		Int("sync_interval_sec", cfg.Sync.IntervalSeconds).
		Msg("starting gridrace sync")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runSyncLoop(ctx, services, clock, time.Duration(cfg.Sync.IntervalSeconds)*time.Second); err != nil {
		log.Fatal().Err(err).Msg("sync loop failed")
	}
	log.Info().Msg("shutdown complete")
}

// runSyncLoop periodically reconciles every tracked session and keeps the
// book of the month warm. Sessions synchronize by periodic refresh, not a
// live socket protocol.
func runSyncLoop(ctx context.Context, services *Services, clock clockwork.Clock, interval time.Duration) error {
	if _, err := services.Books.Fetch(ctx); err != nil {
		// Offline at startup is expected; the next user action retries.
		log.Warn().Err(err).Msg("book of the month not loaded")
	}

	timer := clock.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.Chan():
		}

		if err := services.Engine.SyncAll(ctx); err != nil {
			if errors.Is(err, reconcile.ErrOffline) {
				log.Info().Msg("offline; keeping local-only state")
			} else {
				log.Warn().Err(err).Msg("sync sweep finished with errors")
			}
		}

		timer.Reset(interval)
	}
}
