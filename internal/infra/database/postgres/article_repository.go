package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
)

// ArticleRepository PostgreSQL article store (articles)
type ArticleRepository struct {
	pool *Pool
}

// NewArticleRepository creates the repository
func NewArticleRepository(pool *Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

const articleColumns = `id, ticker, headline, summary, source, url, published_at, image_url, created_at`

// ListCreatedSince rows for ticker first observed at or after since
func (r *ArticleRepository) ListCreatedSince(ctx context.Context, ticker string, since time.Time, limit int) ([]*news.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ticker = $1 AND created_at >= $2
		ORDER BY published_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, ticker, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*news.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// ExistingURLs returns which of urls are already stored
func (r *ArticleRepository) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(urls) == 0 {
		return existing, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT url FROM articles WHERE url = ANY($1)`, urls)
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

// InsertBatch inserts all articles in one transaction.
// A url that another writer stored first is skipped, not an error.
func (r *ArticleRepository) InsertBatch(ctx context.Context, articles []*news.Article) ([]*news.Article, error) {
	if len(articles) == 0 {
		return []*news.Article{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO articles (ticker, headline, summary, source, url, published_at, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, created_at
	`

	batch := &pgx.Batch{}
	for _, a := range articles {
		batch.Queue(query,
			a.Ticker, a.Headline, nullIfEmpty(a.Summary), nullIfEmpty(a.Source),
			a.URL, a.PublishedAt, nullIfEmpty(a.ImageURL),
		)
	}

	br := tx.SendBatch(ctx, batch)

	inserted := make([]*news.Article, 0, len(articles))
	for _, a := range articles {
		stored := *a
		err := br.QueryRow().Scan(&stored.ID, &stored.CreatedAt)
		switch {
		case err == nil:
			inserted = append(inserted, &stored)
		case errors.Is(err, pgx.ErrNoRows), isUniqueViolation(err):
			log.Debug().Str("url", a.URL).Msg("Article already stored, skipping")
		default:
			br.Close()
			return nil, fmt.Errorf("insert article: %w", err)
		}
	}

	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			log.Debug().Err(err).Msg("Concurrent article insert, nothing stored")
			return []*news.Article{}, nil
		}
		return nil, fmt.Errorf("commit articles: %w", err)
	}

	return inserted, nil
}

// CountByTicker number of stored rows for ticker
func (r *ArticleRepository) CountByTicker(ctx context.Context, ticker string) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE ticker = $1`, ticker).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

func scanArticle(row pgx.Row) (*news.Article, error) {
	var (
		a                         news.Article
		summary, source, imageURL *string
	)
	if err := row.Scan(
		&a.ID, &a.Ticker, &a.Headline, &summary, &source,
		&a.URL, &a.PublishedAt, &imageURL, &a.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	a.Summary = derefString(summary)
	a.Source = derefString(source)
	a.ImageURL = derefString(imageURL)
	return &a, nil
}
