package postgres

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schema is idempotent; it runs on every startup
var schema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id           BIGSERIAL PRIMARY KEY,
		ticker       VARCHAR(10)  NOT NULL,
		headline     TEXT         NOT NULL,
		summary      TEXT,
		source       VARCHAR(100),
		url          TEXT         NOT NULL UNIQUE,
		published_at TIMESTAMPTZ  NOT NULL,
		image_url    TEXT,
		created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_ticker ON articles (ticker)`,
	`CREATE INDEX IF NOT EXISTS idx_ticker_published ON articles (ticker, published_at)`,
	`CREATE TABLE IF NOT EXISTS fetch_logs (
		id               BIGSERIAL PRIMARY KEY,
		job_type         VARCHAR(32)  NOT NULL,
		source           VARCHAR(32)  NOT NULL,
		ticker           VARCHAR(10)  NOT NULL,
		records_fetched  INTEGER      NOT NULL DEFAULT 0,
		records_inserted INTEGER      NOT NULL DEFAULT 0,
		status           VARCHAR(16)  NOT NULL,
		error_message    TEXT,
		started_at       TIMESTAMPTZ  NOT NULL,
		finished_at      TIMESTAMPTZ,
		duration_ms      INTEGER,
		created_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fetch_logs_started ON fetch_logs (started_at DESC)`,
}

// Migrate creates tables and indexes that do not exist yet
func (p *Pool) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("PostgreSQL schema ready")
	return nil
}
