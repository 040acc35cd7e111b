package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/tickernews/internal/domain/news"
)

// LockKey guards a tick across worker processes
const LockKey = "refresher:tick"

const sourceFinnhub = "finnhub"

// NewsFetcher fetches and stores news for one ticker without a freshness check
type NewsFetcher interface {
	FetchAndStore(ctx context.Context, ticker string, days, max int) (fetched int, stored []*news.Article, err error)
}

// Locker coordinates ticks between workers sharing a broker
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

// Config refresher settings
type Config struct {
	Interval     time.Duration
	Tickers      []string
	LookbackDays int
	MaxPerTicker int
	LockTTL      time.Duration
}

// DefaultConfig hourly refresh of the default watchlist
func DefaultConfig() *Config {
	return &Config{
		Interval:     time.Hour,
		Tickers:      []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "NFLX", "AMD", "INTC"},
		LookbackDays: 1,
		MaxPerTicker: 5,
		LockTTL:      10 * time.Minute,
	}
}

// RunSummary outcome of one tick
type RunSummary struct {
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Tickers    int       `json:"tickers"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Inserted   int       `json:"inserted"`
	Skipped    bool      `json:"skipped"`
}

// Schedule describes the watchlist and the next tick
type Schedule struct {
	Tickers      []string    `json:"tickers"`
	Interval     string      `json:"interval"`
	LookbackDays int         `json:"lookback_days"`
	MaxPerTicker int         `json:"max_per_ticker"`
	NextRunAt    time.Time   `json:"next_run_at"`
	Running      bool        `json:"running"`
	LastRun      *RunSummary `json:"last_run,omitempty"`
}

// Service hourly news refresher
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	config *Config

	fetcher      NewsFetcher
	fetchLogRepo news.FetchLogRepository
	locker       Locker

	now func() time.Time

	// State
	running bool
	lastRun *RunSummary
	mu      sync.RWMutex
}

// NewService creates the refresher. locker may be nil for a single worker.
func NewService(
	ctx context.Context,
	config *Config,
	fetcher NewsFetcher,
	fetchLogRepo news.FetchLogRepository,
	locker Locker,
) *Service {
	ctx, cancel := context.WithCancel(ctx)

	if config == nil {
		config = DefaultConfig()
	}
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}

	return &Service{
		ctx:          ctx,
		cancel:       cancel,
		config:       config,
		fetcher:      fetcher,
		fetchLogRepo: fetchLogRepo,
		locker:       locker,
		now:          time.Now,
	}
}

// Start launches the tick loop
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("service already running")
	}
	s.running = true
	s.mu.Unlock()

	log.Info().
		Strs("tickers", s.config.Tickers).
		Dur("interval", s.config.Interval).
		Msg("Starting refresher")

	s.wg.Add(1)
	go s.run()

	return nil
}

// Stop cancels the loop and waits for an in-flight tick
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	log.Info().Msg("Stopping refresher")
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("Refresher stopped")

	return nil
}

// run ticks at every interval boundary (minute 0 for the hourly default)
func (s *Service) run() {
	defer s.wg.Done()

	for {
		next := s.NextRun(s.now())
		log.Debug().Time("next_run_at", next).Msg("Refresher waiting")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			s.RunOnce(s.ctx)
		case <-s.ctx.Done():
			timer.Stop()
			return
		}
	}
}

// NextRun first interval boundary strictly after now
func (s *Service) NextRun(now time.Time) time.Time {
	return now.Truncate(s.config.Interval).Add(s.config.Interval)
}

// RunOnce refreshes every watchlist ticker. A failing ticker is logged and
// recorded; the rest still run. It never returns an error.
func (s *Service) RunOnce(ctx context.Context) *RunSummary {
	started := s.now()
	summary := &RunSummary{StartedAt: started, Tickers: len(s.config.Tickers)}

	if s.locker != nil {
		release, acquired, err := s.locker.Acquire(ctx, LockKey, s.config.LockTTL)
		if err != nil {
			log.Error().Err(err).Msg("Refresher lock unavailable, tick skipped")
			summary.Skipped = true
			return s.finish(summary)
		}
		if !acquired {
			log.Info().Msg("Another worker holds the refresher tick, skipped")
			summary.Skipped = true
			return s.finish(summary)
		}
		defer release()
	}

	for _, ticker := range s.config.Tickers {
		if ctx.Err() != nil {
			log.Warn().Msg("Refresher tick cancelled")
			break
		}

		inserted, err := s.refreshTicker(ctx, ticker)
		if err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Inserted += inserted
	}

	log.Info().
		Int("tickers", summary.Tickers).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("inserted", summary.Inserted).
		Msg("Refresher tick completed")

	return s.finish(summary)
}

func (s *Service) finish(summary *RunSummary) *RunSummary {
	summary.DurationMs = s.now().Sub(summary.StartedAt).Milliseconds()

	s.mu.Lock()
	s.lastRun = summary
	s.mu.Unlock()

	return summary
}

// refreshTicker one ticker in its own transaction, recorded in fetch_logs
func (s *Service) refreshTicker(ctx context.Context, ticker string) (int, error) {
	logger := log.With().Str("ticker", ticker).Logger()
	startTime := s.now()

	fetched, stored, err := s.fetcher.FetchAndStore(ctx, ticker, s.config.LookbackDays, s.config.MaxPerTicker)

	finishedAt := s.now()
	durationMs := int(finishedAt.Sub(startTime).Milliseconds())

	fetchLog := &news.FetchLog{
		JobType:         news.JobTypeRefresher,
		Source:          sourceFinnhub,
		Ticker:          ticker,
		RecordsFetched:  fetched,
		RecordsInserted: len(stored),
		Status:          news.FetchStatusSuccess,
		StartedAt:       startTime,
		FinishedAt:      &finishedAt,
		DurationMs:      &durationMs,
	}
	if err != nil {
		msg := err.Error()
		fetchLog.Status = news.FetchStatusFailed
		fetchLog.ErrorMessage = &msg
		logger.Error().Err(err).Msg("Refresh failed")
	} else {
		logger.Info().Int("fetched", fetched).Int("inserted", len(stored)).Msg("Refreshed")
	}

	if s.fetchLogRepo != nil {
		if _, logErr := s.fetchLogRepo.Create(ctx, fetchLog); logErr != nil {
			logger.Warn().Err(logErr).Msg("Failed to save fetch log")
		}
	}

	return len(stored), err
}

// GetSchedule current watchlist, next tick and the last run in this process
func (s *Service) GetSchedule() *Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Schedule{
		Tickers:      append([]string(nil), s.config.Tickers...),
		Interval:     s.config.Interval.String(),
		LookbackDays: s.config.LookbackDays,
		MaxPerTicker: s.config.MaxPerTicker,
		NextRunAt:    s.NextRun(s.now()),
		Running:      s.running,
		LastRun:      s.lastRun,
	}
}
