package postgres

import (
	"context"
	"fmt"

	"github.com/wonny/tickernews/internal/domain/news"
)

// FetchLogRepository PostgreSQL refresher log (fetch_logs)
type FetchLogRepository struct {
	pool *Pool
}

// NewFetchLogRepository creates the repository
func NewFetchLogRepository(pool *Pool) *FetchLogRepository {
	return &FetchLogRepository{pool: pool}
}

// Create records one refresher attempt
func (r *FetchLogRepository) Create(ctx context.Context, log *news.FetchLog) (*news.FetchLog, error) {
	query := `
		INSERT INTO fetch_logs (
			job_type, source, ticker, records_fetched, records_inserted,
			status, error_message, started_at, finished_at, duration_ms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		log.JobType,
		log.Source,
		log.Ticker,
		log.RecordsFetched,
		log.RecordsInserted,
		log.Status,
		log.ErrorMessage,
		log.StartedAt,
		log.FinishedAt,
		log.DurationMs,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create fetch log: %w", err)
	}

	return log, nil
}

// ListRecent newest attempts first
func (r *FetchLogRepository) ListRecent(ctx context.Context, limit int) ([]*news.FetchLog, error) {
	query := `
		SELECT id, job_type, source, ticker, records_fetched, records_inserted,
		       status, error_message, started_at, finished_at, duration_ms, created_at
		FROM fetch_logs
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*news.FetchLog, 0)
	for rows.Next() {
		var l news.FetchLog
		if err := rows.Scan(
			&l.ID, &l.JobType, &l.Source, &l.Ticker, &l.RecordsFetched, &l.RecordsInserted,
			&l.Status, &l.ErrorMessage, &l.StartedAt, &l.FinishedAt, &l.DurationMs, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan fetch log: %w", err)
		}
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}
