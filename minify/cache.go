package minify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/albertocavalcante/go-bundle/graph"
)

// DefaultCacheSize is the number of module sizes kept by NewCachedSizer.
const DefaultCacheSize = 1024

// CachedSizer memoizes another Sizer. Entries are keyed by module name and a
// hash of its source, so edited modules are measured again. Failed
// measurements are not cached.
type CachedSizer struct {
	next  Sizer
	cache *lru.Cache[string, int]
}

// NewCachedSizer wraps next with an LRU cache of the given capacity. A
// non-positive capacity uses DefaultCacheSize.
func NewCachedSizer(next Sizer, capacity int) (*CachedSizer, error) {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	cache, err := lru.New[string, int](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create size cache: %w", err)
	}
	return &CachedSizer{next: next, cache: cache}, nil
}

// Size returns the cached size or measures and caches it.
func (c *CachedSizer) Size(ctx context.Context, m *graph.Module) (int, error) {
	key := cacheKey(m)
	if size, ok := c.cache.Get(key); ok {
		return size, nil
	}
	size, err := c.next.Size(ctx, m)
	if err != nil {
		return size, err
	}
	c.cache.Add(key, size)
	return size, nil
}

// Len returns the number of cached sizes.
func (c *CachedSizer) Len() int {
	return c.cache.Len()
}

// Purge empties the cache.
func (c *CachedSizer) Purge() {
	c.cache.Purge()
}

func cacheKey(m *graph.Module) string {
	sum := sha256.Sum256([]byte(m.Source))
	return m.Name + "\x00" + string(m.Type()) + "\x00" + hex.EncodeToString(sum[:])
}
