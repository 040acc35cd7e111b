package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLocker(t *testing.T) *Locker {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("Integration test - requires Redis (set TEST_REDIS_URL)")
	}

	client, err := NewClient(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewLocker(client)
}

func TestLocker_AcquireIsExclusive(t *testing.T) {
	locker := openTestLocker(t)
	ctx := context.Background()
	key := fmt.Sprintf("test:lock:%d", time.Now().UnixNano())

	release, ok, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	release()

	release2, ok, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "lock is free after release")
	release2()
}

func TestLocker_ReleaseKeepsForeignToken(t *testing.T) {
	locker := openTestLocker(t)
	ctx := context.Background()
	key := fmt.Sprintf("test:lock:%d", time.Now().UnixNano())

	release, ok, err := locker.Acquire(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	// first lock expires and someone else takes it
	time.Sleep(100 * time.Millisecond)
	release2, ok, err := locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer release2()

	release()

	_, ok, err = locker.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "stale release must not drop the new holder's lock")
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}
