package news

import (
	"strings"
	"time"
)

// Article a company news article (articles)
type Article struct {
	ID          int64     `json:"id" db:"id"`
	Ticker      string    `json:"ticker" db:"ticker"`
	Headline    string    `json:"headline" db:"headline"`
	Summary     string    `json:"summary" db:"summary"`
	Source      string    `json:"source" db:"source"`
	URL         string    `json:"url" db:"url"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
}

// Usable reports whether the article has the fields required to store it
func (a *Article) Usable() bool {
	return a != nil && a.Headline != "" && a.URL != ""
}

// Symbol a tradable ticker and its display description
type Symbol struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// Result is the outcome of a news lookup
type Result struct {
	Ticker   string     `json:"ticker"`
	Articles []*Article `json:"articles"`
	Cached   bool       `json:"cached"`
}

// FetchLog one refresher attempt for a ticker (fetch_logs)
type FetchLog struct {
	ID              int64      `json:"id" db:"id"`
	JobType         string     `json:"job_type" db:"job_type"`
	Source          string     `json:"source" db:"source"`
	Ticker          string     `json:"ticker" db:"ticker"`
	RecordsFetched  int        `json:"records_fetched" db:"records_fetched"`
	RecordsInserted int        `json:"records_inserted" db:"records_inserted"`
	Status          string     `json:"status" db:"status"`
	ErrorMessage    *string    `json:"error_message" db:"error_message"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	FinishedAt      *time.Time `json:"finished_at" db:"finished_at"`
	DurationMs      *int       `json:"duration_ms" db:"duration_ms"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

const (
	FetchStatusSuccess = "success"
	FetchStatusFailed  = "failed"

	JobTypeRefresher = "refresher"
)

const (
	// FreshnessWindow rows created within this window are served from the store.
	// It does not depend on the caller's lookback days.
	FreshnessWindow = 24 * time.Hour

	MinLimit = 1
	MaxLimit = 100
	MinDays  = 1
	MaxDays  = 30

	DefaultLimit = 20
	DefaultDays  = 7
)

// NormalizeTicker upper-cases and trims a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateLimit checks the article count bound
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

// ValidateDays checks the upstream lookback bound
func ValidateDays(days int) error {
	if days < MinDays || days > MaxDays {
		return ErrInvalidDays
	}
	return nil
}
