package embedding

import (
	"context"

	"github.com/proctorhq/proctor/errors"
)

// Cache memoizes embeddings from an underlying provider, keyed by content
// hash. Entries are kept for the lifetime of the cache; there is no
// eviction. Not safe for concurrent use.
//
// Cache itself satisfies Provider, so it can be dropped in anywhere a
// provider is expected.
type Cache struct {
	provider Provider
	entries  map[string][]float32
	hits     int
	misses   int
}

// NewCache wraps a provider with memoization
func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		entries:  make(map[string][]float32),
	}
}

// GetOrCompute returns the cached embedding for text, computing and storing
// it on first sight. Empty text is rejected before touching the provider or
// the counters. Failed computations are not cached.
func (c *Cache) GetOrCompute(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.NewInvalidRequestError("cannot embed empty text")
	}

	key := hashText(text)

	if vec, ok := c.entries[key]; ok {
		c.hits++
		return copyVector(vec), nil
	}

	c.misses++
	vec, err := c.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.entries[key] = copyVector(vec)
	return vec, nil
}

// Embed implements Provider
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.GetOrCompute(ctx, text)
}

// EmbedBatch implements Provider, going through the cache text by text
func (c *Cache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.GetOrCompute(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Model implements Provider
func (c *Cache) Model() string {
	return c.provider.Model()
}

// Close implements Provider
func (c *Cache) Close() error {
	return c.provider.Close()
}

// Len returns the number of cached embeddings
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats returns hit and miss counts since creation (or the last Clear)
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Clear empties the cache and resets the counters
func (c *Cache) Clear() {
	c.entries = make(map[string][]float32)
	c.hits = 0
	c.misses = 0
}

// copyVector returns a copy so caller mutations cannot pollute the cache
func copyVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
