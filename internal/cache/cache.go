// Package cache provides the bounded embedding cache shared by all scoring
// calls of one engine.
//
// Entries are evicted in insertion order (FIFO); reading an entry never
// changes its position. Concurrent lookups of the same missing key share a
// single fetch.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the number of embeddings kept when no capacity is given.
const DefaultCapacity = 1000

// ErrInvalidCapacity is returned by New for capacities below one.
var ErrInvalidCapacity = errors.New("cache capacity must be positive")

// FetchFunc obtains the vector for a missing key.
type FetchFunc func(ctx context.Context) ([]float32, error)

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Shared    uint64 `json:"shared"` // lookups whose fetch served more than one caller
	Failures  uint64 `json:"failures"`
}

// Cache maps cache keys to embedding vectors.
//
// Stored vectors are returned without copying and must not be modified.
type Cache struct {
	// Only Peek and Add are used, so the LRU list keeps insertion order.
	entries  *lru.Cache[string, []float32]
	flights  singleflight.Group
	capacity int
	metrics  *Metrics

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	shared    atomic.Uint64
	failures  atomic.Uint64
}

// New creates a cache holding at most capacity vectors.
func New(capacity int) (*Cache, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	c := &Cache{capacity: capacity, metrics: NewMetrics()}
	entries, err := lru.NewWithEvict[string, []float32](capacity, func(string, []float32) {
		c.evictions.Add(1)
		c.metrics.EvictionsTotal.Inc()
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// GetOrFetch returns the vector stored under key, calling fetch on a miss.
//
// A failed fetch, or one that returns no vector, is not cached and yields
// an empty vector. Callers that arrive while a fetch for the same key is in
// flight wait for it instead of fetching again. The fetch runs detached
// from ctx so one waiter giving up does not fail the others; a waiter whose
// ctx ends receives an empty vector.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) []float32 {
	if vec, ok := c.entries.Peek(key); ok {
		c.hits.Add(1)
		c.metrics.HitsTotal.Inc()
		return vec
	}

	c.misses.Add(1)
	c.metrics.MissesTotal.Inc()

	detached := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key, func() (interface{}, error) {
		// Another flight may have stored the key between Peek and DoChan.
		if vec, ok := c.entries.Peek(key); ok {
			return vec, nil
		}

		vec, err := fetch(detached)
		if err != nil {
			c.failures.Add(1)
			c.metrics.FailuresTotal.Inc()
			return nil, err
		}
		if len(vec) == 0 {
			c.failures.Add(1)
			c.metrics.FailuresTotal.Inc()
			return nil, nil
		}

		c.entries.Add(key, vec)
		c.metrics.Size.Set(float64(c.entries.Len()))
		return vec, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
			c.metrics.SharedTotal.Inc()
		}
		if res.Err != nil || res.Val == nil {
			return nil
		}
		return res.Val.([]float32)
	case <-ctx.Done():
		return nil
	}
}

// Contains reports whether key is cached without touching any counters.
func (c *Cache) Contains(key string) bool {
	return c.entries.Contains(key)
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Keys returns the cached keys, oldest first.
func (c *Cache) Keys() []string {
	return c.entries.Keys()
}

// Stats returns current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Size:      c.entries.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Shared:    c.shared.Load(),
		Failures:  c.failures.Load(),
	}
}
