// Package cache is a keyed read cache with prefix invalidation. Reads are
// addressed by a Key tuple; mutations mark dependent key prefixes stale so
// the next access re-fetches. It is the in-process analogue of a
// query-cache sitting between views and the remote document store.
package cache

import (
	"context"
	"strings"
	"sync"
)

// Key identifies a cached read: an entity tag, an operation tag, and the
// operation's parameters. Two reads with identical tuples share state.
type Key []string

// K builds a key from its segments.
func K(parts ...string) Key {
	return Key(parts)
}

func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether k begins with the segments of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

type entry struct {
	key   Key
	value any
	stale bool
}

// Cache maps keys to their last-known result plus a staleness flag. All
// methods are safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Fetch returns the fresh cached value for key, or runs fn and caches its
// result. Errors from fn propagate to the caller and nothing is cached;
// retry is the caller's re-invocation.
func (c *Cache) Fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key.String()]; ok && !e.stale {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, value)
	return value, nil
}

// Get returns the cached value for key if present and fresh.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, clearing any staleness.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = &entry{key: key, value: value}
}

// Invalidate marks every key beginning with prefix stale. Stale entries
// read as misses; the next Fetch for the key hits the source again.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
		}
	}
}

// Remove drops every key beginning with prefix.
func (c *Cache) Remove(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for s, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, s)
		}
	}
}

// Fetch is the typed form of Cache.Fetch. A fresh cached value of the
// wrong type is re-fetched rather than returned.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	t, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, t)
	return t, nil
}
