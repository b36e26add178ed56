// Package cache provides the in-process caches behind the resolver, region
// and collector services.
//
// A Cache with no size limit keeps every entry for the lifetime of the
// process. With a limit it evicts the least recently used entry. Concurrent
// GetOrCompute calls for the same key share a single computation.
package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/ersonp/placefolk/internal/infrastructure/metrics"
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	metrics *metrics.CacheMetrics
	name    string
}

// WithMetrics exports cache activity under the given cache name.
// A nil metrics set or empty name is ignored.
func WithMetrics(m *metrics.CacheMetrics, name string) Option {
	return func(o *options) {
		if m != nil && name != "" {
			o.metrics = m
			o.name = name
		}
	}
}

type entry[V any] struct {
	key   string
	value V
}

// Cache is a thread-safe string-keyed cache implementing ports.Cache.
type Cache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	items      map[string]*list.Element
	order      *list.List

	group singleflight.Group
	stats Stats
	opts  options
}

// New creates a cache. maxEntries <= 0 means unbounded.
func New[V any](maxEntries int, opts ...Option) *Cache[V] {
	c := &Cache[V]{
		maxEntries: max(maxEntries, 0),
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c.opts)
		}
	}
	return c
}

// Get retrieves a value by key and marks it as recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.misses.Add(1)
		if c.opts.metrics != nil {
			c.opts.metrics.Miss(c.opts.name)
		}
		var zero V
		return zero, false
	}

	c.order.MoveToFront(el)
	c.stats.hits.Add(1)
	if c.opts.metrics != nil {
		c.opts.metrics.Hit(c.opts.name)
	}
	return el.Value.(*entry[V]).value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[V]).value = value
		c.order.MoveToFront(el)
	} else {
		c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})
		if c.maxEntries > 0 && len(c.items) > c.maxEntries {
			c.evictOldest()
		}
	}

	c.stats.sets.Add(1)
	if c.opts.metrics != nil {
		c.opts.metrics.Set(c.opts.name, len(c.items))
	}
}

// evictOldest removes the least recently used entry. Caller holds mu.
func (c *Cache[V]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)

	c.stats.evictions.Add(1)
	if c.opts.metrics != nil {
		c.opts.metrics.Evict(c.opts.name)
	}
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.items, key)
	if c.opts.metrics != nil {
		c.opts.metrics.Resize(c.opts.name, len(c.items))
	}
	return true
}

// GetOrCompute returns the cached value for key, or runs compute and stores
// a successful result. Errors are returned unchanged and never stored.
//
// Callers that join another caller's computation and receive that caller's
// cancellation or deadline, while their own ctx is still live, compute again.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	for {
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		ran := false
		v, err, _ := c.group.Do(key, func() (any, error) {
			ran = true
			c.mu.Lock()
			el, ok := c.items[key]
			c.mu.Unlock()
			if ok {
				return el.Value.(*entry[V]).value, nil
			}

			v, err := compute(ctx)
			if err != nil {
				return nil, err
			}
			c.Set(key, v)
			return v, nil
		})
		if err == nil {
			val, _ := v.(V)
			return val, nil
		}
		if !ran && ctx.Err() == nil && isContextErr(err) {
			continue
		}
		var zero V
		return zero, err
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns the cached keys from most to least recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() StatsSnapshot {
	return StatsSnapshot{
		Hits:      c.stats.hits.Load(),
		Misses:    c.stats.misses.Load(),
		Sets:      c.stats.sets.Load(),
		Evictions: c.stats.evictions.Load(),
		Size:      c.Len(),
	}
}

// Stats tracks cache activity.
type Stats struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
	Size      int
}

// HitRatio returns hits over lookups, or 0 with no lookups.
func (s StatsSnapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
