package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/query"
)

// defaultEmbedTimeout bounds the query embedding call per search.
const defaultEmbedTimeout = 10 * time.Second

// Service orchestrates one search call: analyze, embed, rank. It holds no
// cross-call mutable state and is safe for concurrent use.
type Service struct {
	embedder     ai.Embedder
	analyzer     *query.Analyzer
	ranker       *HybridRanker
	logger       *slog.Logger
	embedTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAnalyzer sets a custom query analyzer.
func WithAnalyzer(analyzer *query.Analyzer) Option {
	return func(s *Service) error {
		if analyzer == nil {
			return ErrAnalyzerRequired
		}
		s.analyzer = analyzer
		return nil
	}
}

// WithEmbedTimeout bounds the embedding call per search.
// Default is 10 seconds; non-positive values restore the default.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(s *Service) error {
		if timeout <= 0 {
			timeout = defaultEmbedTimeout
		}
		s.embedTimeout = timeout
		return nil
	}
}

// NewService creates a search service. The provider may be nil, in which
// case every search runs lexical-only.
func NewService(provider ai.Provider, opts ...Option) (*Service, error) {
	analyzer, err := query.NewAnalyzer()
	if err != nil {
		return nil, err
	}

	s := &Service{
		analyzer:     analyzer,
		logger:       slog.Default(),
		embedTimeout: defaultEmbedTimeout,
	}
	if provider != nil {
		s.embedder = provider.Embedder()
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.ranker = NewHybridRanker(s.analyzer.Vocabulary(), s.logger)
	return s, nil
}

// Search ranks records against the raw query, resolving relative dates
// against the anchor time.
// Returns core.ErrEmptyQuery when the query is blank after trimming.
func (s *Service) Search(
	ctx context.Context,
	rawQuery string,
	records []*core.MemoryRecord,
	anchor time.Time,
	opts Options,
) (*core.SearchOutcome, error) {
	return s.SearchWithMonitor(ctx, rawQuery, records, anchor, opts, nil)
}

// SearchWithMonitor ranks records with monitoring. The monitor receives
// callbacks at each stage of the search process.
//
// Provider failures and embed timeouts degrade the call to lexical-only
// scoring and are never surfaced as errors. An embedding dimension mismatch
// is surfaced, because it indicates a systemic misconfiguration. Caller
// cancellation aborts the in-flight embedding request and returns ctx.Err().
func (s *Service) SearchWithMonitor(
	ctx context.Context,
	rawQuery string,
	records []*core.MemoryRecord,
	anchor time.Time,
	opts Options,
	monitor SearchMonitor,
) (*core.SearchOutcome, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(rawQuery) == "" {
		return nil, core.ErrEmptyQuery
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	monitor.Start(rawQuery)

	intent := s.analyzer.Analyze(rawQuery, anchor)
	monitor.AfterAnalyze(&intent)

	queryEmbedding := s.embedQuery(ctx, rawQuery, monitor)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.ranker.Rank(&intent, records, queryEmbedding, opts, monitor)
}

// embedQuery fetches the query embedding under the configured timeout.
// Any failure is logged and reported to the monitor; the search continues
// without a semantic signal.
func (s *Service) embedQuery(ctx context.Context, rawQuery string, monitor SearchMonitor) []float32 {
	if s.embedder == nil {
		return nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedText(embedCtx, rawQuery)
	if err != nil {
		s.logger.Warn("embedding provider unavailable, degrading to lexical-only", "err", err)
		monitor.Degraded(err)
		return nil
	}

	monitor.AfterQueryEmbedding(len(embedding))
	return embedding
}
