package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tickernews/internal/domain/news"
	"github.com/wonny/tickernews/internal/pkg/health"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func openTestDB(t *testing.T, clock *fakeClock) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func article(ticker, url string, published time.Time) *news.Article {
	return &news.Article{
		Ticker:      ticker,
		Headline:    "Headline " + url,
		Summary:     "summary",
		Source:      "Reuters",
		URL:         url,
		PublishedAt: published,
	}
}

func TestArticleRepository_InsertAndList(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: now}
	repo := NewArticleRepository(openTestDB(t, clock))
	ctx := context.Background()

	inserted, err := repo.InsertBatch(ctx, []*news.Article{
		article("AAPL", "https://a/1", now.Add(-3*time.Hour)),
		article("AAPL", "https://a/2", now.Add(-1*time.Hour)),
		article("MSFT", "https://m/1", now.Add(-2*time.Hour)),
	})
	require.NoError(t, err)
	require.Len(t, inserted, 3)
	for _, a := range inserted {
		assert.NotZero(t, a.ID)
		assert.Equal(t, now, a.CreatedAt)
	}

	got, err := repo.ListCreatedSince(ctx, "AAPL", now.Add(-news.FreshnessWindow), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://a/2", got[0].URL, "newest published first")
	assert.Equal(t, "https://a/1", got[1].URL)
	assert.Equal(t, "Reuters", got[0].Source)
	assert.Equal(t, "", got[0].ImageURL)

	limited, err := repo.ListCreatedSince(ctx, "AAPL", now.Add(-news.FreshnessWindow), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestArticleRepository_ListIgnoresOldRows(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	repo := NewArticleRepository(openTestDB(t, clock))
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []*news.Article{article("AAPL", "https://a/old", clock.t)})
	require.NoError(t, err)

	clock.t = clock.t.Add(25 * time.Hour)
	got, err := repo.ListCreatedSince(ctx, "AAPL", clock.t.Add(-news.FreshnessWindow), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArticleRepository_InsertBatchIsIdempotentOnURL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	repo := NewArticleRepository(openTestDB(t, clock))
	ctx := context.Background()

	batch := []*news.Article{
		article("AAPL", "https://a/1", clock.t),
		article("AAPL", "https://a/2", clock.t),
	}

	first, err := repo.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := repo.InsertBatch(ctx, append(batch, article("AAPL", "https://a/3", clock.t)))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "https://a/3", second[0].URL)

	count, err := repo.CountByTicker(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestArticleRepository_ExistingURLs(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	repo := NewArticleRepository(openTestDB(t, clock))
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []*news.Article{article("AAPL", "https://a/1", clock.t)})
	require.NoError(t, err)

	existing, err := repo.ExistingURLs(ctx, []string{"https://a/1", "https://a/2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"https://a/1": true}, existing)

	empty, err := repo.ExistingURLs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFetchLogRepository_CreateAndList(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	repo := NewFetchLogRepository(openTestDB(t, clock))
	ctx := context.Background()

	finished := clock.t.Add(time.Second)
	duration := 1000
	msg := "upstream down"

	_, err := repo.Create(ctx, &news.FetchLog{
		JobType: news.JobTypeRefresher, Source: "finnhub", Ticker: "AAPL",
		RecordsFetched: 4, RecordsInserted: 2, Status: news.FetchStatusSuccess,
		StartedAt: clock.t, FinishedAt: &finished, DurationMs: &duration,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &news.FetchLog{
		JobType: news.JobTypeRefresher, Source: "finnhub", Ticker: "MSFT",
		Status: news.FetchStatusFailed, ErrorMessage: &msg, StartedAt: clock.t.Add(2 * time.Second),
	})
	require.NoError(t, err)

	logs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "MSFT", logs[0].Ticker)
	require.NotNil(t, logs[0].ErrorMessage)
	assert.Equal(t, msg, *logs[0].ErrorMessage)
	assert.Nil(t, logs[0].FinishedAt)

	assert.Equal(t, "AAPL", logs[1].Ticker)
	require.NotNil(t, logs[1].DurationMs)
	assert.Equal(t, 1000, *logs[1].DurationMs)
	assert.Equal(t, 2, logs[1].RecordsInserted)
}

func TestDB_Health(t *testing.T) {
	db := openTestDB(t, &fakeClock{t: time.Now()})
	status := db.Health(context.Background())
	assert.Equal(t, health.StatusHealthy, status.Status)
	assert.Equal(t, "sqlite", status.Driver)
}
