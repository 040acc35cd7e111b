package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
	"github.com/wonny/tickernews/internal/infra/database/postgres"
	"github.com/wonny/tickernews/internal/infra/database/sqlite"
	"github.com/wonny/tickernews/internal/pkg/config"
	"github.com/wonny/tickernews/internal/pkg/health"
)

// Store the repositories backed by the configured driver
type Store struct {
	Driver    string
	Articles  news.ArticleRepository
	FetchLogs news.FetchLogRepository
	Health    health.Checker

	close func()
}

// Open connects to DB_DRIVER and makes sure the schema exists
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver:    cfg.Database.Driver,
			Articles:  postgres.NewArticleRepository(pool),
			FetchLogs: postgres.NewFetchLogRepository(pool),
			Health:    pool,
			close:     pool.Close,
		}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:    cfg.Database.Driver,
			Articles:  sqlite.NewArticleRepository(db),
			FetchLogs: sqlite.NewFetchLogRepository(db),
			Health:    db,
			close: func() {
				if err := db.Close(); err != nil {
					log.Warn().Err(err).Msg("Failed to close SQLite store")
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// Close releases the underlying connections
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
