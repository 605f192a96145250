package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache(t *testing.T) {
	cache, err := New[string]("Test Cache", 100, time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set("test-key", "test string")
	cache.Wait()

	value, found := cache.Get("test-key")
	require.True(t, found, "expected to find cached value")
	assert.Equal(t, "test string", value)
}

func TestCacheWithoutTTL(t *testing.T) {
	cache, err := New[float64]("Price Cache", 100, 0)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set("k", 452000.00)
	cache.Wait()

	value, found := cache.Get("k")
	require.True(t, found)
	assert.Equal(t, 452000.00, value)
}

func TestCacheClear(t *testing.T) {
	cache, err := New[int]("Clear Cache", 100, 0)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set("a", 1)
	cache.Wait()
	cache.Clear()

	_, found := cache.Get("a")
	assert.False(t, found)
}

func TestCacheStats(t *testing.T) {
	cache, err := New[string]("Test Cache", 100, time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	cache.Set("key1", "v")
	cache.Set("key2", "v")
	cache.Wait()

	cache.Get("key1") // Hit
	cache.Get("key2") // Hit
	cache.Get("key3") // Miss

	stats := cache.Stats()

	assert.Equal(t, "Test Cache", stats.Name)
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(3), stats.TotalRequests)
	assert.InDelta(t, 66.67, stats.HitRate, 0.01)
	assert.Equal(t, 60.0, stats.TTLSeconds)
}

func TestCacheStatsEmptyCache(t *testing.T) {
	cache, err := New[string]("Empty Cache", 10, 0)
	require.NoError(t, err)
	defer cache.Close()

	stats := cache.Stats()

	assert.Equal(t, "Empty Cache", stats.Name)
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, uint64(0), stats.Sets)
	assert.Equal(t, 0.0, stats.HitRate)
}

func BenchmarkCacheGet(b *testing.B) {
	cache, err := New[string]("Benchmark Cache", 1000, 0)
	if err != nil {
		b.Fatal(err)
	}
	defer cache.Close()

	for i := 0; i < 100; i++ {
		cache.Set(fmt.Sprintf("key%d", i), "value")
	}
	cache.Wait()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("key%d", i%100))
	}
}
