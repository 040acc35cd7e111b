package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wonny/tickernews/internal/domain/quote"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 10 * time.Second

	candleDateLayout = "2006-01-02 15:04:05"
	pricePlaces      = 2
)

// Client Yahoo Finance chart API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client; empty baseURL and zero timeout use the defaults
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// =============================================================================
// API Response Types
// =============================================================================

// ChartResponse /v8/finance/chart payload
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ChartResult one symbol's chart data
type ChartResult struct {
	Meta       ChartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// ChartMeta snapshot fields returned alongside the series
type ChartMeta struct {
	Symbol               string  `json:"symbol"`
	ShortName            string  `json:"shortName"`
	LongName             string  `json:"longName"`
	Currency             string  `json:"currency"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	ChartPreviousClose   float64 `json:"chartPreviousClose"`
	PreviousClose        float64 `json:"previousClose"`
	RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  int64   `json:"regularMarketVolume"`
	MarketCap            int64   `json:"marketCap"`
}

// =============================================================================
// Quote
// =============================================================================

// GetQuote current snapshot for ticker; a zero price means the ticker is unknown
func (c *Client) GetQuote(ctx context.Context, ticker string) (*quote.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	params := url.Values{}
	params.Set("range", "1d")
	params.Set("interval", "1d")

	result, err := c.chart(ctx, ticker, params)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, quote.ErrQuoteNotFound)
	}

	meta := result.Meta
	price := decimal.NewFromFloat(meta.RegularMarketPrice)

	prevClose := meta.PreviousClose
	if prevClose == 0 {
		prevClose = meta.ChartPreviousClose
	}

	change := decimal.Zero
	changePct := decimal.Zero
	if prevClose != 0 {
		prev := decimal.NewFromFloat(prevClose)
		change = price.Sub(prev)
		changePct = change.Div(prev).Mul(decimal.NewFromInt(100))
	}

	name := meta.ShortName
	if name == "" {
		name = meta.LongName
	}

	return &quote.Quote{
		Symbol:        ticker,
		Name:          name,
		Price:         price,
		Change:        change.Round(pricePlaces),
		ChangePercent: changePct.Round(pricePlaces),
		High:          decimal.NewFromFloat(meta.RegularMarketDayHigh),
		Low:           decimal.NewFromFloat(meta.RegularMarketDayLow),
		Volume:        meta.RegularMarketVolume,
		MarketCap:     meta.MarketCap,
	}, nil
}

// =============================================================================
// History
// =============================================================================

// GetHistory OHLCV bars for period/interval, oldest first.
// Bars with a missing value are skipped.
func (c *Client) GetHistory(ctx context.Context, ticker, period, interval string) ([]quote.Candle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", interval)
	params.Set("includePrePost", "false")

	result, err := c.chart(ctx, ticker, params)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, quote.ErrHistoryNotFound)
	}

	loc := time.UTC
	if tz := result.Meta.ExchangeTimezoneName; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	series := result.Indicators.Quote[0]
	candles := make([]quote.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, ok1 := at(series.Open, i)
		high, ok2 := at(series.High, i)
		low, ok3 := at(series.Low, i)
		closeVal, ok4 := at(series.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		volume, _ := at(series.Volume, i)

		candles = append(candles, quote.Candle{
			Date:   time.Unix(ts, 0).In(loc).Format(candleDateLayout),
			Open:   decimal.NewFromFloat(open).Round(pricePlaces),
			High:   decimal.NewFromFloat(high).Round(pricePlaces),
			Low:    decimal.NewFromFloat(low).Round(pricePlaces),
			Close:  decimal.NewFromFloat(closeVal).Round(pricePlaces),
			Volume: int64(volume),
		})
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, quote.ErrHistoryNotFound)
	}

	log.Debug().
		Str("ticker", ticker).
		Str("period", period).
		Str("interval", interval).
		Int("candles", len(candles)).
		Msg("Fetched history from Yahoo")

	return candles, nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}

// chart calls /v8/finance/chart/{ticker}. Yahoo answers unknown symbols with
// 404 and a chart error body; both map to a nil result.
func (c *Client) chart(ctx context.Context, ticker string, params url.Values) (*ChartResult, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chart %s: unexpected status %d: %s", ticker, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload ChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("chart %s: decode response: %w", ticker, err)
	}

	if e := payload.Chart.Error; e != nil {
		log.Debug().Str("ticker", ticker).Str("code", e.Code).Msg("Yahoo chart error")
		return nil, nil
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}
	return &payload.Chart.Result[0], nil
}
