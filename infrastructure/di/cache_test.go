package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache(0)
	defer cache.Stop()

	require.NoError(t, cache.Set(ctx, "k", "v", 60))
	v, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, cache.Delete(ctx, "k"))
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache(10 * time.Millisecond)
	defer cache.Stop()

	require.NoError(t, cache.Set(ctx, "k", "v", 0))

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	assert.Eventually(t, func() bool {
		cache.mu.RLock()
		defer cache.mu.RUnlock()
		return len(cache.items) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestInMemoryCache_StopIsIdempotent(t *testing.T) {
	cache := NewInMemoryCache(time.Millisecond)
	cache.Stop()
	assert.NotPanics(t, cache.Stop)
}

func TestInMemoryCache_SetIfVersion(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCache(0)
	defer cache.Stop()

	before := cache.Version(ctx, "k")
	require.NoError(t, cache.Delete(ctx, "k"))
	assert.Equal(t, before+1, cache.Version(ctx, "k"))

	stored, err := cache.SetIfVersion(ctx, "k", "stale", 60, before)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	stored, err = cache.SetIfVersion(ctx, "k", "fresh", 60, cache.Version(ctx, "k"))
	require.NoError(t, err)
	assert.True(t, stored)
	v, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}
