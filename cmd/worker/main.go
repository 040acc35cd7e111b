package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/app"
	"github.com/wonny/tickernews/internal/pkg/config"
)

const (
	serviceName    = "tickernews-worker"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := app.InitLogger(cfg, serviceName, serviceVersion); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("version", serviceVersion).
		Msg("🚀 Starting Ticker News Refresher...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()

	svc := a.NewRefresher(ctx, nil)
	if err := svc.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start refresher")
	}

	log.Info().
		Time("next_run_at", svc.GetSchedule().NextRunAt).
		Bool("coordinated", a.Locker != nil).
		Msg("✅ Refresher running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal received, stopping refresher...")

	if err := svc.Stop(); err != nil {
		log.Error().Err(err).Msg("Refresher shutdown failed")
	}

	log.Info().Msg("👋 Ticker News Refresher stopped")
}
