// Package statscache holds short-lived computed values, such as dashboard
// statistics, behind an explicitly constructed cache.
package statscache

import (
	"context"
	"sync"
	"time"
)

// Loader computes a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

// Cache memoizes one value for a fixed TTL. A TTL of zero or less disables
// caching and every Get calls the loader. The zero value is not usable; build
// one with New.
type Cache[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	value      T
	loadedAt   time.Time
	valid      bool
	generation uint64
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithNow overrides the time source, mainly for tests.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New builds a cache whose entries stay fresh for ttl.
func New[T any](ttl time.Duration, opts ...Option) *Cache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{ttl: ttl, now: o.now}
}

// Get returns the cached value while fresh and otherwise calls load. Loader
// errors are returned as-is and leave the cache empty. A result computed
// concurrently with an Invalidate is returned but not stored.
func (c *Cache[T]) Get(ctx context.Context, load Loader[T]) (T, error) {
	if c == nil {
		return load(ctx)
	}
	c.mu.Lock()
	if c.ttl > 0 && c.valid && c.now().Sub(c.loadedAt) < c.ttl {
		value := c.value
		c.mu.Unlock()
		return value, nil
	}
	generation := c.generation
	c.mu.Unlock()

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if c.ttl <= 0 {
		return value, nil
	}

	c.mu.Lock()
	if c.generation == generation {
		c.value = value
		c.loadedAt = c.now()
		c.valid = true
	}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops the cached value.
func (c *Cache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	var zero T
	c.value = zero
	c.valid = false
	c.generation++
	c.mu.Unlock()
}

// TTL reports the configured freshness window.
func (c *Cache[T]) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}
