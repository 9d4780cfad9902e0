// Package cached wraps any embedder with a ristretto cache. Embedding
// providers are deterministic for identical input, so the same situation
// text (retrieval queries repeat a lot in a conversation) never pays for a
// second API round trip.
package cached

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/YourBr0ther/EeveeLLM/memory"
)

// Embedder memoizes an inner embedder's results keyed by input text.
type Embedder struct {
	inner memory.Embedder
	cache *ristretto.Cache
}

// New wraps inner with a cache bounded to roughly maxBytes of vectors.
func New(inner memory.Embedder, maxBytes int64) (*Embedder, error) {
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, or computes and caches it.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}
	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	// Wait flushes ristretto's admission buffer so a repeat of the same
	// text hits the cache immediately.
	e.cache.Set(text, vec, int64(len(vec))*4)
	e.cache.Wait()
	return vec, nil
}

// Dimensions returns the inner embedder's size.
func (e *Embedder) Dimensions() int { return e.inner.Dimensions() }
