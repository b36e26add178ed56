package mocks

import (
	"context"
	"sync"
)

// Cache is a map-backed implementation of ports.Cache.
type Cache[V any] struct {
	mu    sync.Mutex
	Items map[string]V
}

// NewCache returns an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{Items: make(map[string]V)}
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Items[key]
	return v, ok
}

// GetOrCompute returns the cached value or computes and stores it.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	c.mu.Lock()
	c.Items[key] = v
	c.mu.Unlock()
	return v, nil
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Items)
}
