package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wonny/tickernews/internal/api"
	"github.com/wonny/tickernews/internal/app"
	"github.com/wonny/tickernews/internal/pkg/config"
)

const (
	serviceName    = "tickernews-api"
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

	// prices are written as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	log.Info().
		Str("version", serviceVersion).
		Msg("🚀 Starting Ticker News API Server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.Close()

	deps := api.Dependencies{
		News:      a.News,
		Quotes:    a.Quotes,
		Store:     a.Store.Health,
		FetchLogs: a.Store.FetchLogs,
		// the worker runs the ticks; this instance only reports the schedule
		Schedule: a.NewRefresher(ctx, nil),
	}
	if a.Locker != nil {
		deps.Broker = a.Locker
	}

	router := api.NewRouter(cfg, deps, serviceVersion)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("address", addr).
			Msg("🎯 API Server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("👋 Ticker News API Server stopped")
}
