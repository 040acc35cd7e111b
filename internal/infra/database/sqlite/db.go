package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/pkg/health"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB an embedded article store for local runs and tests.
// Timestamps are stored as unix milliseconds.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures DB
type Option func(*DB)

// WithClock overrides the clock used for created_at
func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

// Open opens (and creates if needed) the database at path
func Open(path string, opts ...Option) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// single writer
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.Migrate(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("✅ SQLite store opened")
	return d, nil
}

// Migrate creates tables and indexes that do not exist yet
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS articles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker       TEXT    NOT NULL,
			headline     TEXT    NOT NULL,
			summary      TEXT,
			source       TEXT,
			url          TEXT    NOT NULL UNIQUE,
			published_at INTEGER NOT NULL,
			image_url    TEXT,
			created_at   INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_ticker ON articles(ticker);
		CREATE INDEX IF NOT EXISTS idx_ticker_published ON articles(ticker, published_at);

		CREATE TABLE IF NOT EXISTS fetch_logs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			job_type         TEXT    NOT NULL,
			source           TEXT    NOT NULL,
			ticker           TEXT    NOT NULL,
			records_fetched  INTEGER NOT NULL DEFAULT 0,
			records_inserted INTEGER NOT NULL DEFAULT 0,
			status           TEXT    NOT NULL,
			error_message    TEXT,
			started_at       INTEGER NOT NULL,
			finished_at      INTEGER,
			duration_ms      INTEGER,
			created_at       INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_fetch_logs_started ON fetch_logs(started_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Close closes the database
func (d *DB) Close() error {
	return d.db.Close()
}

// Health checks the database file is reachable
func (d *DB) Health(ctx context.Context) *health.Status {
	start := time.Now()
	status := &health.Status{
		Status:    health.StatusHealthy,
		Driver:    "sqlite",
		CheckedAt: start,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := d.db.PingContext(pingCtx); err != nil {
		status.Status = health.StatusUnhealthy
		status.Error = fmt.Sprintf("ping failed: %v", err)
		status.ResponseTime = time.Since(start).String()
		return status
	}

	stats := d.db.Stats()
	status.ActiveConns = int32(stats.InUse)
	status.IdleConns = int32(stats.Idle)
	status.TotalConns = int32(stats.OpenConnections)
	status.MaxConns = int32(stats.MaxOpenConnections)
	status.ResponseTime = time.Since(start).String()
	return status
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
