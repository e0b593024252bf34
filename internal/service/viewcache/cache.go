// Package viewcache provides a request-scoped memo table for read
// queries. A cache is created per incoming request, carried through the
// request context, and discarded with it; results never outlive a request
// and there is no process-global cache.
package viewcache

import (
	"context"
	"sync"

	"github.com/memopad/memopad-api/internal/events"
)

// contextKey is the private key type for the cache stored in a context.
type contextKey struct{}

// Cache memoizes query results by canonical key for the lifetime of one
// request.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Get returns the cached value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a value under key, replacing any previous entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Clear drops every entry. Called when a mutation invalidates the views
// this request may have already read.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// WithCache stores the cache in the context.
func WithCache(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext retrieves the cache from the context, or nil when the
// request carries none. Callers must treat a nil cache as "memoization
// disabled".
func FromContext(ctx context.Context) *Cache {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(contextKey{}).(*Cache)
	return c
}

// Lookup returns the cached value of type T for key, if present.
// A nil cache always misses.
func Lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Store saves a value under key, tolerating a nil cache.
func Store(c *Cache, key string, value any) {
	if c == nil {
		return
	}
	c.Set(key, value)
}

// Invalidator clears the cache riding on the emitting request's context
// whenever any view is invalidated. Registered as an event handler on the
// application's emitter.
type Invalidator struct{}

// Ensure Invalidator implements events.EventHandler.
var _ events.EventHandler = (*Invalidator)(nil)

// HandleEvent implements events.EventHandler. Any invalidation drops the
// whole request cache, not just the named views.
func (Invalidator) HandleEvent(ctx context.Context, _ *events.ViewInvalidationEvent) error {
	if c := FromContext(ctx); c != nil {
		c.Clear()
	}
	return nil
}
