package refresher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tickernews/internal/domain/news"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
	inserted int
	days     int
	max      int
}

func (f *fakeFetcher) FetchAndStore(ctx context.Context, ticker string, days, max int) (int, []*news.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, ticker)
	f.days, f.max = days, max
	if err := f.failures[ticker]; err != nil {
		return 0, nil, err
	}

	stored := make([]*news.Article, f.inserted)
	for i := range stored {
		stored[i] = &news.Article{Ticker: ticker}
	}
	return max, stored, nil
}

type memoryFetchLogs struct {
	mu   sync.Mutex
	logs []*news.FetchLog
}

func (m *memoryFetchLogs) Create(ctx context.Context, l *news.FetchLog) (*news.FetchLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, l)
	return l, nil
}

func (m *memoryFetchLogs) ListRecent(ctx context.Context, limit int) ([]*news.FetchLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs, nil
}

type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (l *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() {
		l.held = false
		l.released++
	}, true, nil
}

func testConfig(tickers ...string) *Config {
	cfg := DefaultConfig()
	cfg.Tickers = tickers
	return cfg
}

func TestRunOnce_PerTickerIsolation(t *testing.T) {
	fetcher := &fakeFetcher{
		inserted: 2,
		failures: map[string]error{"MSFT": errors.New("upstream provider unavailable: status 502")},
	}
	logs := &memoryFetchLogs{}
	svc := NewService(context.Background(), testConfig("AAPL", "MSFT", "GOOGL"), fetcher, logs, nil)

	summary := svc.RunOnce(context.Background())

	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, fetcher.calls, "failure does not stop later tickers")
	assert.Equal(t, 3, summary.Tickers)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 4, summary.Inserted)
	assert.False(t, summary.Skipped)

	assert.Equal(t, 1, fetcher.days)
	assert.Equal(t, 5, fetcher.max)

	require.Len(t, logs.logs, 3)
	assert.Equal(t, news.FetchStatusSuccess, logs.logs[0].Status)
	assert.Equal(t, 2, logs.logs[0].RecordsInserted)
	assert.Equal(t, news.JobTypeRefresher, logs.logs[0].JobType)

	failed := logs.logs[1]
	assert.Equal(t, "MSFT", failed.Ticker)
	assert.Equal(t, news.FetchStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Contains(t, *failed.ErrorMessage, "502")
	require.NotNil(t, failed.FinishedAt)
}

func TestRunOnce_LockHeldSkipsTick(t *testing.T) {
	fetcher := &fakeFetcher{}
	locker := &fakeLocker{held: true}
	svc := NewService(context.Background(), testConfig("AAPL"), fetcher, &memoryFetchLogs{}, locker)

	summary := svc.RunOnce(context.Background())
	assert.True(t, summary.Skipped)
	assert.Empty(t, fetcher.calls)
}

func TestRunOnce_LockErrorSkipsTick(t *testing.T) {
	fetcher := &fakeFetcher{}
	locker := &fakeLocker{err: errors.New("dial tcp: connection refused")}
	svc := NewService(context.Background(), testConfig("AAPL"), fetcher, &memoryFetchLogs{}, locker)

	summary := svc.RunOnce(context.Background())
	assert.True(t, summary.Skipped)
	assert.Empty(t, fetcher.calls)
}

func TestRunOnce_ReleasesLock(t *testing.T) {
	fetcher := &fakeFetcher{}
	locker := &fakeLocker{}
	svc := NewService(context.Background(), testConfig("AAPL", "MSFT"), fetcher, &memoryFetchLogs{}, locker)

	summary := svc.RunOnce(context.Background())
	assert.False(t, summary.Skipped)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, locker.released)
	assert.False(t, locker.held)
}

func TestRunOnce_CancelledContext(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(context.Background(), testConfig("AAPL", "MSFT"), fetcher, &memoryFetchLogs{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := svc.RunOnce(ctx)
	assert.Empty(t, fetcher.calls)
	assert.Equal(t, 0, summary.Succeeded)
}

func TestNextRun_TopOfHour(t *testing.T) {
	svc := NewService(context.Background(), DefaultConfig(), &fakeFetcher{}, nil, nil)

	now := time.Date(2026, 10, 19, 14, 37, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC), svc.NextRun(now))

	onTheHour := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 16, 0, 0, 0, time.UTC), svc.NextRun(onTheHour))
}

func TestGetSchedule(t *testing.T) {
	svc := NewService(context.Background(), testConfig("AAPL", "MSFT"), &fakeFetcher{}, &memoryFetchLogs{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 14, 5, 0, 0, time.UTC) }

	schedule := svc.GetSchedule()
	assert.Equal(t, []string{"AAPL", "MSFT"}, schedule.Tickers)
	assert.Equal(t, "1h0m0s", schedule.Interval)
	assert.Equal(t, time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC), schedule.NextRunAt)
	assert.Nil(t, schedule.LastRun)

	svc.RunOnce(context.Background())
	schedule = svc.GetSchedule()
	require.NotNil(t, schedule.LastRun)
	assert.Equal(t, 2, schedule.LastRun.Succeeded)
}

func TestStartStop(t *testing.T) {
	svc := NewService(context.Background(), testConfig("AAPL"), &fakeFetcher{}, &memoryFetchLogs{}, nil)

	require.NoError(t, svc.Start())
	assert.Error(t, svc.Start(), "second start is rejected")
	assert.True(t, svc.GetSchedule().Running)

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, svc.GetSchedule().Running)
	assert.NoError(t, svc.Stop())
}
