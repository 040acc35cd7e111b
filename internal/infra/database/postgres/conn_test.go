package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/tickernews/internal/domain/news"
	"github.com/wonny/tickernews/internal/infra/database/postgres"
	"github.com/wonny/tickernews/internal/pkg/config"
	"github.com/wonny/tickernews/internal/pkg/health"
)

// openTestPool connects to TEST_DATABASE_URL or skips
func openTestPool(t *testing.T) *postgres.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires PostgreSQL (set TEST_DATABASE_URL)")
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:          "postgres",
			URL:             url,
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: time.Minute,
		},
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Migrate(ctx))
	return pool
}

func TestPool_Health(t *testing.T) {
	pool := openTestPool(t)

	status := pool.Health(context.Background())
	require.NotNil(t, status)
	assert.NotEqual(t, health.StatusUnhealthy, status.Status)
	assert.Greater(t, status.MaxConns, int32(0))
}

func TestArticleRepository_InsertBatchSkipsDuplicates(t *testing.T) {
	pool := openTestPool(t)
	repo := postgres.NewArticleRepository(pool)
	ctx := context.Background()

	url := fmt.Sprintf("https://example.com/pg-%d", time.Now().UnixNano())
	article := &news.Article{
		Ticker:      "TEST",
		Headline:    "Integration",
		URL:         url,
		PublishedAt: time.Now().UTC().Truncate(time.Second),
	}

	first, err := repo.InsertBatch(ctx, []*news.Article{article})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.NotZero(t, first[0].ID)

	second, err := repo.InsertBatch(ctx, []*news.Article{article})
	require.NoError(t, err)
	assert.Empty(t, second)

	existing, err := repo.ExistingURLs(ctx, []string{url, url + "-missing"})
	require.NoError(t, err)
	assert.True(t, existing[url])
	assert.False(t, existing[url+"-missing"])
}
