package cache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a typed, size-bounded cache backed by ristretto.
type Cache[T any] struct {
	impl *ristretto.Cache[string, T]
	name string
	ttl  time.Duration
}

// Stats is a point-in-time view of the cache metrics.
type Stats struct {
	Name          string  `json:"name"`
	Hits          uint64  `json:"hits"`
	Misses        uint64  `json:"misses"`
	Sets          uint64  `json:"sets"`
	Evicted       uint64  `json:"evicted"`
	HitRate       float64 `json:"hit_rate"`
	CurrentItems  int64   `json:"current_items"`
	CostUsed      int64   `json:"cost_used"`
	SetsDropped   uint64  `json:"sets_dropped"`
	SetsRejected  uint64  `json:"sets_rejected"`
	TTLSeconds    float64 `json:"ttl_seconds"`
	TotalRequests uint64  `json:"total_requests"`
}

// New creates a cache that holds up to maxItems entries of cost 1 each and
// expires them after ttl (zero means no expiry).
func New[T any](name string, maxItems int64, ttl time.Duration) (*Cache[T], error) {
	impl, err := ristretto.NewCache(&ristretto.Config[string, T]{
		NumCounters:        maxItems * 10, // ristretto recommends 10x the item count
		MaxCost:            maxItems,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true, // every entry costs exactly 1
	})
	if err != nil {
		return nil, err
	}

	return &Cache[T]{impl: impl, name: name, ttl: ttl}, nil
}

// Get retrieves a value from the cache.
func (c *Cache[T]) Get(key string) (T, bool) {
	return c.impl.Get(key)
}

// Set stores a value with the cache's default TTL. Sets are applied
// asynchronously and may be dropped under contention.
func (c *Cache[T]) Set(key string, value T) bool {
	if c.ttl > 0 {
		return c.impl.SetWithTTL(key, value, 1, c.ttl)
	}
	return c.impl.Set(key, value, 1)
}

// Clear removes all items from the cache.
func (c *Cache[T]) Clear() {
	c.impl.Clear()
}

// Wait blocks until pending sets have been applied.
func (c *Cache[T]) Wait() {
	c.impl.Wait()
}

// Close stops the cache's background goroutines.
func (c *Cache[T]) Close() {
	c.impl.Close()
}

// Stats returns the current metrics for admin monitoring.
func (c *Cache[T]) Stats() Stats {
	m := c.impl.Metrics
	total := m.Hits() + m.Misses()

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(m.Hits()) / float64(total) * 100
	}

	return Stats{
		Name:          c.name,
		Hits:          m.Hits(),
		Misses:        m.Misses(),
		Sets:          m.KeysAdded(),
		Evicted:       m.KeysEvicted(),
		HitRate:       hitRate,
		CurrentItems:  int64(m.KeysAdded() - m.KeysEvicted()),
		CostUsed:      int64(m.CostAdded() - m.CostEvicted()),
		SetsDropped:   m.SetsDropped(),
		SetsRejected:  m.SetsRejected(),
		TTLSeconds:    c.ttl.Seconds(),
		TotalRequests: total,
	}
}
