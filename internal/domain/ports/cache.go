package ports

import "context"

// Cache is a string-keyed store with lookup-or-populate semantics.
type Cache[V any] interface {
	// Get returns the cached value for key, if present.
	Get(key string) (V, bool)

	// GetOrCompute returns the cached value for key, or invokes compute,
	// stores its result and returns it. A compute error is returned as-is
	// and nothing is stored.
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) (V, error)) (V, error)

	// Len returns the number of cached entries.
	Len() int
}
