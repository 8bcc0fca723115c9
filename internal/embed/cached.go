package embed

import (
	"context"
	"sync"
)

// Cached memoizes vectors by exact text. Once maxEntries is reached new
// texts pass through uncached.
type Cached struct {
	inner      Embedder
	maxEntries int

	mu      sync.Mutex
	entries map[string][]float32
	hits    int
	misses  int
}

func NewCached(inner Embedder, maxEntries int) *Cached {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	return &Cached{
		inner:      inner,
		maxEntries: maxEntries,
		entries:    make(map[string][]float32),
	}
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	if v, ok := c.entries[text]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) < c.maxEntries {
		c.entries[text] = v
	}
	return v, nil
}

// Counts returns cache hits and misses so far.
func (c *Cached) Counts() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
