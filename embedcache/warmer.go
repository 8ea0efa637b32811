package embedcache

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
)

// WarmStats reports the outcome of one warming pass.
type WarmStats struct {
	Embedded int // Records that received a fresh embedding
	Skipped  int // Records that already had one
	Failed   int // Records whose embedding failed after retries
}

// Warmer fills in missing record embeddings ahead of search traffic.
// Work is spread over a bounded ants pool; each record is retried with
// exponential backoff before being counted as failed.
type Warmer struct {
	embedder    ai.Embedder
	pool        *ants.Pool
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// WarmerOption configures a Warmer.
type WarmerOption func(*Warmer) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) WarmerOption {
	return func(w *Warmer) error {
		if size < 1 {
			size = 1
		}
		if w.pool != nil {
			w.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		w.pool = pool
		return nil
	}
}

// WithRetry sets the retry policy for failed embedding calls.
// Default is 3 attempts with a 1 second base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) WarmerOption {
	return func(w *Warmer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		w.maxAttempts = maxAttempts
		w.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) WarmerOption {
	return func(w *Warmer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWarmer creates a warmer over the given embedder. Wrap the embedder in a
// Cache first if warmed vectors should also serve later query lookups.
func NewWarmer(embedder ai.Embedder, opts ...WarmerOption) (*Warmer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	w := &Warmer{
		embedder:    embedder,
		pool:        pool,
		maxAttempts: 3,
		retryDelay:  1 * time.Second,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(w); err != nil {
			w.Release()
			return nil, err
		}
	}

	return w, nil
}

// Warm embeds every record that lacks an embedding, normalizing vectors to
// unit length before assignment. Individual failures are logged and counted,
// not fatal; the error return is reserved for context cancellation.
func (w *Warmer) Warm(ctx context.Context, records []*core.MemoryRecord) (WarmStats, error) {
	var (
		mu    sync.Mutex
		stats WarmStats
		wg    sync.WaitGroup
	)

	for _, record := range records {
		if record == nil {
			continue
		}
		if len(record.Embedding) > 0 {
			stats.Skipped++
			continue
		}

		record := record
		wg.Add(1)
		if err := w.pool.Submit(func() {
			defer wg.Done()

			var vector []float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				vector, embedErr = w.embedder.EmbedText(ctx, record.EmbeddingText())
				return embedErr
			}, w.maxAttempts, w.retryDelay)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				w.logger.Warn("failed to embed record", "recordId", record.Id, "err", err)
				return
			}
			record.Embedding = NormalizeVector(vector)
			stats.Embedded++
		}); err != nil {
			wg.Done()
			mu.Lock()
			stats.Failed++
			mu.Unlock()
			w.logger.Error("failed to submit embedding task", "recordId", record.Id, "err", err)
		}
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// Release releases the worker pool.
// The warmer should not be used after calling Release.
func (w *Warmer) Release() {
	if w.pool != nil {
		w.pool.Release()
	}
}
