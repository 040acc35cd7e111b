package news

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Lookup errors
	ErrTickerNotFound = errors.New("ticker not found")

	// Validation errors
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidLimit     = fmt.Errorf("%w: limit must be between %d and %d", ErrInvalidParameter, MinLimit, MaxLimit)
	ErrInvalidDays      = fmt.Errorf("%w: days must be between %d and %d", ErrInvalidParameter, MinDays, MaxDays)
	ErrEmptyTicker      = fmt.Errorf("%w: ticker is required", ErrInvalidParameter)

	// External API errors
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTickerNotFound)
}

// IsValidationError checks if the error was caused by request parameters
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsUpstreamError checks if the error came from the upstream provider
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}
