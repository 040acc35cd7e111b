package quote

import "errors"

var (
	// Validation errors
	ErrInvalidPeriod   = errors.New("invalid period: must be one of 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max")
	ErrInvalidInterval = errors.New("invalid interval: must be one of 1m, 2m, 5m, 15m, 30m, 60m, 90m, 1h, 1d, 5d, 1wk, 1mo, 3mo")

	// Data errors
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrHistoryNotFound = errors.New("history not found")
)
