package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wonny/tickernews/internal/domain/news"
)

// FetchLogRepository SQLite refresher log
type FetchLogRepository struct {
	db *DB
}

// NewFetchLogRepository creates the repository
func NewFetchLogRepository(db *DB) *FetchLogRepository {
	return &FetchLogRepository{db: db}
}

// Create records one refresher attempt
func (r *FetchLogRepository) Create(ctx context.Context, log *news.FetchLog) (*news.FetchLog, error) {
	var finishedAt, durationMs sql.NullInt64
	if log.FinishedAt != nil {
		finishedAt = sql.NullInt64{Int64: toMillis(*log.FinishedAt), Valid: true}
	}
	if log.DurationMs != nil {
		durationMs = sql.NullInt64{Int64: int64(*log.DurationMs), Valid: true}
	}
	var errMsg sql.NullString
	if log.ErrorMessage != nil {
		errMsg = sql.NullString{String: *log.ErrorMessage, Valid: true}
	}

	createdAt := r.db.now().UTC()
	res, err := r.db.db.ExecContext(ctx, `
		INSERT INTO fetch_logs (
			job_type, source, ticker, records_fetched, records_inserted,
			status, error_message, started_at, finished_at, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.JobType, log.Source, log.Ticker, log.RecordsFetched, log.RecordsInserted,
		log.Status, errMsg, toMillis(log.StartedAt), finishedAt, durationMs, toMillis(createdAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create fetch log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	log.ID = id
	log.CreatedAt = fromMillis(toMillis(createdAt))
	return log, nil
}

// ListRecent newest attempts first
func (r *FetchLogRepository) ListRecent(ctx context.Context, limit int) ([]*news.FetchLog, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, job_type, source, ticker, records_fetched, records_inserted,
		       status, error_message, started_at, finished_at, duration_ms, created_at
		FROM fetch_logs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*news.FetchLog, 0)
	for rows.Next() {
		var (
			l                      news.FetchLog
			errMsg                 sql.NullString
			startedAt, createdAt   int64
			finishedAt, durationMs sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.JobType, &l.Source, &l.Ticker, &l.RecordsFetched, &l.RecordsInserted,
			&l.Status, &errMsg, &startedAt, &finishedAt, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan fetch log: %w", err)
		}
		if errMsg.Valid {
			msg := errMsg.String
			l.ErrorMessage = &msg
		}
		l.StartedAt = fromMillis(startedAt)
		if finishedAt.Valid {
			t := fromMillis(finishedAt.Int64)
			l.FinishedAt = &t
		}
		if durationMs.Valid {
			d := int(durationMs.Int64)
			l.DurationMs = &d
		}
		l.CreatedAt = fromMillis(createdAt)
		logs = append(logs, &l)
	}

	return logs, rows.Err()
}
