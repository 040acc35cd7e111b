package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/infra/cache"
	"github.com/wonny/tickernews/internal/infra/database"
	"github.com/wonny/tickernews/internal/infra/external/finnhub"
	"github.com/wonny/tickernews/internal/infra/external/yahoo"
	"github.com/wonny/tickernews/internal/pkg/config"
	"github.com/wonny/tickernews/internal/pkg/logger"
	newsservice "github.com/wonny/tickernews/internal/service/news"
	"github.com/wonny/tickernews/internal/service/refresher"
)

// App the wired components shared by every binary
type App struct {
	Config  *config.Config
	Store   *database.Store
	Symbols *finnhub.SymbolCache
	News    *newsservice.Service
	Quotes  *yahoo.Client

	// nil when REDIS_URL is unset or unreachable
	Redis  *redis.Client
	Locker *cache.Locker
}

// InitLogger initializes the global logger for a binary
func InitLogger(cfg *config.Config, serviceName, serviceVersion string) error {
	return logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	})
}

// New opens the store and builds the clients and services
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Finnhub.APIKey == "" {
		log.Warn().Msg("FINNHUB_API_KEY is not set, upstream calls will be rejected")
	}

	store, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Info().Str("driver", store.Driver).Msg("✅ Store ready")

	finnhubClient := finnhub.NewClient(cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey, cfg.Finnhub.Timeout)
	symbols := finnhub.NewSymbolCache(finnhubClient)

	a := &App{
		Config:  cfg,
		Store:   store,
		Symbols: symbols,
		News:    newsservice.NewService(store.Articles, finnhubClient, symbols),
		Quotes:  yahoo.NewClient(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout),
	}

	if cfg.Redis.URL != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, refresher ticks will not be coordinated")
		} else {
			a.Redis = client
			a.Locker = cache.NewLocker(client)
		}
	}

	return a, nil
}

// RefresherConfig refresher settings from the environment
func (a *App) RefresherConfig() *refresher.Config {
	return &refresher.Config{
		Interval:     a.Config.Refresher.Interval,
		Tickers:      a.Config.Refresher.Tickers,
		LookbackDays: a.Config.Refresher.LookbackDays,
		MaxPerTicker: a.Config.Refresher.MaxPerTicker,
		LockTTL:      a.Config.Refresher.LockTTL,
	}
}

// NewRefresher builds a refresher on the shared services (not started)
func (a *App) NewRefresher(ctx context.Context, cfg *refresher.Config) *refresher.Service {
	if cfg == nil {
		cfg = a.RefresherConfig()
	}

	var locker refresher.Locker
	if a.Locker != nil {
		locker = a.Locker
	}
	return refresher.NewService(ctx, cfg, a.News, a.Store.FetchLogs, locker)
}

// Close releases the store and broker connections
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	a.Store.Close()
}
