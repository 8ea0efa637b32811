package embedcache

import (
	"context"
	"sync"

	"github.com/poiesic/recall/ai"
)

// entry is one in-flight or completed computation. done is closed when the
// result fields are valid.
type entry struct {
	done   chan struct{}
	vector []float32
	err    error
}

// Cache memoizes embeddings by text. It implements ai.Embedder, so it can
// sit transparently in front of a provider's embedder.
//
// Each text is computed at most once: concurrent requests for the same text
// wait on the same in-flight provider call. Failures are not cached; the
// failed key becomes computable again as soon as the losing waiters have
// been notified.
type Cache struct {
	embedder ai.Embedder
	mu       sync.Mutex
	entries  map[string]*entry
}

var _ ai.Embedder = (*Cache)(nil)

// NewCache creates a cache in front of the given embedder.
func NewCache(embedder ai.Embedder) (*Cache, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &Cache{
		embedder: embedder,
		entries:  make(map[string]*entry),
	}, nil
}

// EmbedText returns the cached embedding for text, computing it through the
// underlying embedder on first use. Waiters observe ctx cancellation without
// cancelling the shared computation another caller may still want.
func (c *Cache) EmbedText(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	if e, ok := c.entries[text]; ok {
		c.mu.Unlock()
		select {
		case <-e.done:
			return e.vector, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e := &entry{done: make(chan struct{})}
	c.entries[text] = e
	c.mu.Unlock()

	e.vector, e.err = c.embedder.EmbedText(ctx, text)
	if e.err != nil {
		// Drop the entry before waking waiters so the key stays computable.
		c.mu.Lock()
		delete(c.entries, text)
		c.mu.Unlock()
	}
	close(e.done)

	return e.vector, e.err
}

// EmbedTexts embeds a batch through the cache, one text at a time. Texts
// already cached cost nothing; the rest hit the provider individually so
// their results are reusable by later single-text lookups.
func (c *Cache) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := c.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Len returns the number of cached embeddings, counting in-flight entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge discards all cached embeddings.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
