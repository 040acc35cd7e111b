package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
)

// ArticleRepository SQLite article store
type ArticleRepository struct {
	db *DB
}

// NewArticleRepository creates the repository
func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ListCreatedSince rows for ticker first observed at or after since
func (r *ArticleRepository) ListCreatedSince(ctx context.Context, ticker string, since time.Time, limit int) ([]*news.Article, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, ticker, headline, summary, source, url, published_at, image_url, created_at
		FROM articles
		WHERE ticker = ? AND created_at >= ?
		ORDER BY published_at DESC, id DESC
		LIMIT ?`,
		ticker, toMillis(since), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*news.Article, 0)
	for rows.Next() {
		var (
			a                         news.Article
			summary, source, imageURL sql.NullString
			publishedAt, createdAt    int64
		)
		if err := rows.Scan(&a.ID, &a.Ticker, &a.Headline, &summary, &source,
			&a.URL, &publishedAt, &imageURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Summary = summary.String
		a.Source = source.String
		a.ImageURL = imageURL.String
		a.PublishedAt = fromMillis(publishedAt)
		a.CreatedAt = fromMillis(createdAt)
		articles = append(articles, &a)
	}

	return articles, rows.Err()
}

// ExistingURLs returns which of urls are already stored
func (r *ArticleRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(urls) == 0 {
		return existing, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(urls)), ",")
	args := make([]any, len(urls))
	for i, u := range urls {
		args[i] = u
	}

	rows, err := r.db.db.QueryContext(ctx, `SELECT url FROM articles WHERE url IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("check existing articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan existing: %w", err)
		}
		existing[url] = true
	}

	return existing, rows.Err()
}

// InsertBatch inserts all articles in one transaction, skipping url conflicts
func (r *ArticleRepository) InsertBatch(ctx context.Context, articles []*news.Article) ([]*news.Article, error) {
	if len(articles) == 0 {
		return []*news.Article{}, nil
	}

	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (ticker, headline, summary, source, url, published_at, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := r.db.now().UTC()
	inserted := make([]*news.Article, 0, len(articles))

	for _, a := range articles {
		res, err := stmt.ExecContext(ctx,
			a.Ticker, a.Headline, nullString(a.Summary), nullString(a.Source),
			a.URL, toMillis(a.PublishedAt), nullString(a.ImageURL), toMillis(createdAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				log.Debug().Str("url", a.URL).Msg("Article already stored, skipping")
				continue
			}
			return nil, fmt.Errorf("insert article: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			log.Debug().Str("url", a.URL).Msg("Article already stored, skipping")
			continue
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}

		stored := *a
		stored.ID = id
		stored.CreatedAt = fromMillis(toMillis(createdAt))
		inserted = append(inserted, &stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit articles: %w", err)
	}

	return inserted, nil
}

// CountByTicker number of stored rows for ticker
func (r *ArticleRepository) CountByTicker(ctx context.Context, ticker string) (int, error) {
	var count int
	if err := r.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE ticker = ?`, ticker).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}
