package ratelimit

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

func TestMemoryTokenBucket(t *testing.T) {
	limiter := NewMemory(Config{RequestsPerMinute: 60, Burst: 2})
	clock := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "10.0.0.1")
	require.False(t, ok)

	ok, _ = limiter.Allow(ctx, "10.0.0.2")
	require.True(t, ok, "buckets are per key")

	clock = clock.Add(time.Second)
	ok, _ = limiter.Allow(ctx, "10.0.0.1")
	require.True(t, ok, "one token refills per second at 60 rpm")
	ok, _ = limiter.Allow(ctx, "10.0.0.1")
	require.False(t, ok)
}

func TestMemoryEvictsBeyondMaxClients(t *testing.T) {
	limiter := NewMemory(Config{RequestsPerMinute: 1, Burst: 1, MaxClients: 1})
	ctx := context.Background()

	ok, _ := limiter.Allow(ctx, "a")
	require.True(t, ok)
	ok, _ = limiter.Allow(ctx, "b")
	require.True(t, ok)
	// "a" was evicted and starts with a full bucket.
	ok, _ = limiter.Allow(ctx, "a")
	require.True(t, ok)
}

func TestValkeyFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	limiter := NewValkey(client, "test", Config{RequestsPerMinute: 2})
	clock := time.Date(2024, 6, 1, 10, 0, 5, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, ok)

	key := "test:10.0.0.1:" + strconv.FormatInt(clock.Unix()/60, 10)
	require.True(t, mr.Exists(key))
	require.Equal(t, time.Minute, mr.TTL(key))

	clock = clock.Add(time.Minute)
	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValkeyRestoresMissingTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	limiter := NewValkey(client, "test", Config{RequestsPerMinute: 5})
	clock := time.Date(2024, 6, 1, 10, 0, 5, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	// A window key left behind without a TTL, as after a failed expire.
	key := "test:10.0.0.2:" + strconv.FormatInt(clock.Unix()/60, 10)
	require.NoError(t, mr.Set(key, "1"))
	require.Zero(t, mr.TTL(key))

	ok, err := limiter.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(30 * time.Second)
	_, err = limiter.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, mr.TTL(key))
}
