package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
)

const (
	defaultBaseURL = "https://finnhub.io/api/v1"
	defaultTimeout = 10 * time.Second

	// commonStock is the only instrument type kept in the symbol list
	commonStock = "Common Stock"
)

// Client Finnhub REST client
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client; empty baseURL and zero timeout use the defaults
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// =============================================================================
// API Response Types
// =============================================================================

// NewsDTO one company-news entry
type NewsDTO struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// SymbolDTO one stock/symbol entry
type SymbolDTO struct {
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	FIGI          string `json:"figi"`
	MIC           string `json:"mic"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// =============================================================================
// Company News
// =============================================================================

// FetchCompanyNews company news published between from and to (dates, inclusive).
// Entries without a headline or url are dropped.
func (c *Client) FetchCompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]*news.Article, error) {
	ticker = news.NormalizeTicker(ticker)

	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var items []NewsDTO
	if err := c.get(ctx, "/company-news", params, &items); err != nil {
		return nil, fmt.Errorf("company news %s: %w", ticker, err)
	}

	articles := make([]*news.Article, 0, len(items))
	for _, dto := range items {
		if dto.Headline == "" || dto.URL == "" {
			continue
		}
		articles = append(articles, &news.Article{
			Ticker:      ticker,
			Headline:    dto.Headline,
			Summary:     dto.Summary,
			Source:      dto.Source,
			URL:         dto.URL,
			PublishedAt: time.Unix(dto.Datetime, 0).UTC(),
			ImageURL:    dto.Image,
		})
	}

	log.Debug().
		Str("ticker", ticker).
		Int("received", len(items)).
		Int("usable", len(articles)).
		Time("from", from).
		Time("to", to).
		Msg("Fetched company news from Finnhub")

	return articles, nil
}

// =============================================================================
// Symbols
// =============================================================================

// FetchSymbols US common-stock symbols
func (c *Client) FetchSymbols(ctx context.Context) ([]news.Symbol, error) {
	params := url.Values{}
	params.Set("exchange", "US")

	var items []SymbolDTO
	if err := c.get(ctx, "/stock/symbol", params, &items); err != nil {
		return nil, fmt.Errorf("stock symbols: %w", err)
	}

	symbols := make([]news.Symbol, 0, len(items))
	for _, dto := range items {
		if dto.Type != commonStock || dto.Symbol == "" {
			continue
		}
		symbols = append(symbols, news.Symbol{
			Symbol:      dto.Symbol,
			Description: dto.Description,
		})
	}

	log.Debug().
		Int("received", len(items)).
		Int("common_stock", len(symbols)).
		Msg("Fetched symbols from Finnhub")

	return symbols, nil
}

// get performs a GET and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("token", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the token is part of the URL; keep it out of the error text
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("do request %s: %w", path, urlErr.Err)
		}
		return fmt.Errorf("do request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
