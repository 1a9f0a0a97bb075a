package modules

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps a Registry with an LRU cache keyed by module name. Misses
// (ErrNotFound) are not cached, so a module published after a failed lookup
// is picked up on the next request.
type Cached struct {
	inner Registry
	cache *lru.Cache[string, []byte]
}

// NewCached wraps inner with a cache of the given size.
func NewCached(inner Registry, size int) (*Cached, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Resolve implements Registry.
func (c *Cached) Resolve(ctx context.Context, name string) ([]byte, error) {
	if src, ok := c.cache.Get(name); ok {
		return src, nil
	}
	src, err := c.inner.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(name, src)
	return src, nil
}

// Invalidate drops a module from the cache.
func (c *Cached) Invalidate(name string) {
	c.cache.Remove(name)
}
