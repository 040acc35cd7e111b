package news

import (
	"context"
	"time"
)

// =============================================================================
// Article Repository
// =============================================================================

// ArticleRepository article store (articles)
// url is unique; rows are never updated or deleted.
type ArticleRepository interface {
	// ListCreatedSince returns rows for ticker created at or after since,
	// newest published first, capped at limit
	ListCreatedSince(ctx context.Context, ticker string, since time.Time, limit int) ([]*Article, error)

	// ExistingURLs returns the subset of urls already stored
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)

	// InsertBatch inserts articles in a single transaction.
	// Rows that hit the url constraint are skipped; the inserted rows are
	// returned with ID and CreatedAt set.
	InsertBatch(ctx context.Context, articles []*Article) ([]*Article, error)

	// CountByTicker number of stored rows for ticker
	CountByTicker(ctx context.Context, ticker string) (int, error)
}

// =============================================================================
// Fetch Log Repository
// =============================================================================

// FetchLogRepository refresher run log (fetch_logs)
type FetchLogRepository interface {
	Create(ctx context.Context, log *FetchLog) (*FetchLog, error)
	ListRecent(ctx context.Context, limit int) ([]*FetchLog, error)
}

// =============================================================================
// Upstream
// =============================================================================

// Provider upstream news source
type Provider interface {
	// FetchCompanyNews returns usable articles published between from and to
	FetchCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]*Article, error)
}

// SymbolValidator answers whether a ticker is a recognized symbol
type SymbolValidator interface {
	IsValid(ctx context.Context, ticker string) (bool, error)
	List(ctx context.Context) ([]Symbol, error)
}
