package news

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
)

// Service cache-or-fetch reconciler for company news
type Service struct {
	articles news.ArticleRepository
	provider news.Provider
	symbols  news.SymbolValidator
	now      func() time.Time
}

// NewService creates the reconciler
func NewService(articles news.ArticleRepository, provider news.Provider, symbols news.SymbolValidator) *Service {
	return &Service{
		articles: articles,
		provider: provider,
		symbols:  symbols,
		now:      time.Now,
	}
}

// =============================================================================
// Queries
// =============================================================================

// GetNews returns articles for ticker created in the last 24h when any exist
// (Cached=true). Otherwise it fetches up to limit articles published in the
// last days from upstream, stores the new ones and returns them.
func (s *Service) GetNews(ctx context.Context, ticker string, limit, days int) (*news.Result, error) {
	ticker = news.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, news.ErrEmptyTicker
	}
	if err := news.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if err := news.ValidateDays(days); err != nil {
		return nil, err
	}

	valid, err := s.symbols.IsValid(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: load symbols: %w", news.ErrUpstreamUnavailable, err)
	}
	if !valid {
		return nil, fmt.Errorf("%s: %w", ticker, news.ErrTickerNotFound)
	}

	now := s.now()
	logger := log.With().Str("ticker", ticker).Logger()

	cached, err := s.articles.ListCreatedSince(ctx, ticker, now.Add(-news.FreshnessWindow), limit)
	if err != nil {
		return nil, fmt.Errorf("list cached news %s: %w", ticker, err)
	}
	if len(cached) > 0 {
		logger.Debug().Int("count", len(cached)).Msg("News served from cache")
		return &news.Result{Ticker: ticker, Articles: cached, Cached: true}, nil
	}

	_, stored, err := s.fetch(ctx, ticker, now, days, limit)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("stored", len(stored)).Int("days", days).Msg("News fetched from upstream")
	return &news.Result{Ticker: ticker, Articles: stored, Cached: false}, nil
}

// ListTickers all recognized symbols
func (s *Service) ListTickers(ctx context.Context) ([]news.Symbol, error) {
	symbols, err := s.symbols.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load symbols: %w", news.ErrUpstreamUnavailable, err)
	}
	return symbols, nil
}

// =============================================================================
// Ingest
// =============================================================================

// FetchAndStore fetches news published in the last days without any
// freshness check. Only the first max upstream records are considered.
// fetched is the number of upstream records considered.
func (s *Service) FetchAndStore(ctx context.Context, ticker string, days, max int) (fetched int, stored []*news.Article, err error) {
	ticker = news.NormalizeTicker(ticker)
	if ticker == "" {
		return 0, nil, news.ErrEmptyTicker
	}
	return s.fetch(ctx, ticker, s.now(), days, max)
}

func (s *Service) fetch(ctx context.Context, ticker string, now time.Time, days, max int) (int, []*news.Article, error) {
	records, err := s.provider.FetchCompanyNews(ctx, ticker, now.AddDate(0, 0, -days), now)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", news.ErrUpstreamUnavailable, err)
	}

	if len(records) > max {
		records = records[:max]
	}

	stored, err := s.Ingest(ctx, records)
	if err != nil {
		return len(records), nil, err
	}
	return len(records), stored, nil
}

// Ingest stores the usable records whose url is not stored yet and returns
// the rows actually inserted. Rows lost to a concurrent insert are skipped.
func (s *Service) Ingest(ctx context.Context, records []*news.Article) ([]*news.Article, error) {
	candidates := make([]*news.Article, 0, len(records))
	urls := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, a := range records {
		if !a.Usable() || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		a.Ticker = news.NormalizeTicker(a.Ticker)
		candidates = append(candidates, a)
		urls = append(urls, a.URL)
	}

	if len(candidates) == 0 {
		return []*news.Article{}, nil
	}

	existing, err := s.articles.ExistingURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("check existing urls: %w", err)
	}

	staged := make([]*news.Article, 0, len(candidates))
	for _, a := range candidates {
		if !existing[a.URL] {
			staged = append(staged, a)
		}
	}

	if len(staged) == 0 {
		return []*news.Article{}, nil
	}

	inserted, err := s.articles.InsertBatch(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("insert articles: %w", err)
	}

	if skipped := len(staged) - len(inserted); skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("Duplicate urls skipped on insert")
	}
	return inserted, nil
}
