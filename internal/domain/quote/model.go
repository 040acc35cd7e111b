package quote

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote current trading snapshot for a ticker
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Volume        int64           `json:"volume"`
	MarketCap     int64           `json:"market_cap"`
}

// Candle one OHLCV bar
type Candle struct {
	Date   string          `json:"date"` // 2006-01-02 15:04:05
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Provider quote and history source
type Provider interface {
	GetQuote(ctx context.Context, ticker string) (*Quote, error)
	GetHistory(ctx context.Context, ticker, period, interval string) ([]Candle, error)
}

const (
	DefaultPeriod   = "1mo"
	DefaultInterval = "1d"
)

var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

var validIntervals = map[string]bool{
	"1m": true, "2m": true, "5m": true, "15m": true, "30m": true, "60m": true, "90m": true,
	"1h": true, "1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true,
}

// ValidatePeriod checks the history range value
func ValidatePeriod(period string) error {
	if !validPeriods[period] {
		return ErrInvalidPeriod
	}
	return nil
}

// ValidateInterval checks the history bar size value
func ValidateInterval(interval string) error {
	if !validIntervals[interval] {
		return ErrInvalidInterval
	}
	return nil
}
