package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query returns ErrEmptyQuery", func(t *testing.T) {
		service, err := NewService(mock.NewMockProvider())
		require.NoError(t, err)

		_, err = service.Search(ctx, "   ", nil, testAnchor, DefaultOptions())
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	})

	t.Run("invalid options rejected", func(t *testing.T) {
		service, err := NewService(mock.NewMockProvider())
		require.NoError(t, err)

		opts := DefaultOptions()
		opts.TopK = -1
		_, err = service.Search(ctx, "grocery", nil, testAnchor, opts)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})

	t.Run("nil provider runs lexical-only", func(t *testing.T) {
		service, err := NewService(nil)
		require.NoError(t, err)

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run"},
		}
		outcome, err := service.Search(ctx, "grocery", records, testAnchor, DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, core.MethodLexicalOnly, outcome.Method)
		require.Len(t, outcome.Results, 1)
	})

	t.Run("provider failure degrades without error", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}
		service, err := NewService(mock.NewMockProviderWithEmbedder(embedder))
		require.NoError(t, err)

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run", Embedding: []float32{1, 0}},
		}

		for i := 0; i < 3; i++ {
			outcome, err := service.Search(ctx, "grocery", records, testAnchor, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, core.MethodLexicalOnly, outcome.Method)
		}
		assert.Equal(t, 3, embedder.CallCount())
	})

	t.Run("identical calls are idempotent", func(t *testing.T) {
		service, err := NewService(mock.NewMockProvider())
		require.NoError(t, err)

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run", Importance: 4, Embedding: mock.DeterministicVector("Grocery run", 384)},
			{Id: 2, Content: "Buy groceries for the week", Importance: 6, Embedding: mock.DeterministicVector("Buy groceries for the week", 384)},
			{Id: 3, Content: "Sprint planning", Importance: 5, Embedding: mock.DeterministicVector("Sprint planning", 384)},
		}

		first, err := service.Search(ctx, "grocery shopping", records, testAnchor, DefaultOptions())
		require.NoError(t, err)
		second, err := service.Search(ctx, "grocery shopping", records, testAnchor, DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("no match yields suggestions", func(t *testing.T) {
		service, err := NewService(nil)
		require.NoError(t, err)

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run", Tags: []string{"errands"}, Type: core.MemoryTypePersonal},
		}

		outcome, err := service.Search(ctx, "xyzzynotarealword", records, testAnchor, DefaultOptions())
		require.NoError(t, err)

		assert.True(t, outcome.IsNoMatch())
		assert.NotEmpty(t, outcome.Suggestions)
	})

	t.Run("dimension mismatch surfaces", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
			return []float32{1, 0}, nil
		}
		service, err := NewService(mock.NewMockProviderWithEmbedder(embedder))
		require.NoError(t, err)

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run", Embedding: []float32{1, 0, 0}},
		}

		_, err = service.Search(ctx, "grocery", records, testAnchor, DefaultOptions())
		assert.ErrorIs(t, err, core.ErrInvalidEmbeddingDimension)
	})

	t.Run("cancellation aborts the call", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, _ string) ([]float32, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		service, err := NewService(mock.NewMockProviderWithEmbedder(embedder))
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run"},
		}
		_, err = service.Search(cancelled, "grocery", records, testAnchor, DefaultOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("embed timeout degrades to lexical-only", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, _ string) ([]float32, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		service, err := NewService(
			mock.NewMockProviderWithEmbedder(embedder),
			WithEmbedTimeout(10*time.Millisecond),
		)
		require.NoError(t, err)

		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run", Embedding: []float32{1, 0}},
		}
		outcome, err := service.Search(ctx, "grocery", records, testAnchor, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, core.MethodLexicalOnly, outcome.Method)
	})

	t.Run("monitor observes stages", func(t *testing.T) {
		service, err := NewService(mock.NewMockProvider())
		require.NoError(t, err)

		monitor := &recordingMonitor{}
		records := []*core.MemoryRecord{
			{Id: 1, Content: "Grocery run"},
		}
		_, err = service.SearchWithMonitor(ctx, "grocery", records, testAnchor, DefaultOptions(), monitor)
		require.NoError(t, err)

		assert.Equal(t, 1, monitor.started)
		assert.Equal(t, 1, monitor.analyzed)
		assert.Equal(t, 1, monitor.embedded)
		assert.Equal(t, 1, monitor.finished)
	})
}

type recordingMonitor struct {
	started  int
	analyzed int
	embedded int
	degraded int
	finished int
}

func (m *recordingMonitor) Start(_ string)                       { m.started++ }
func (m *recordingMonitor) AfterAnalyze(_ *core.SearchIntent)    { m.analyzed++ }
func (m *recordingMonitor) AfterQueryEmbedding(_ int)            { m.embedded++ }
func (m *recordingMonitor) Degraded(_ error)                     { m.degraded++ }
func (m *recordingMonitor) DateOnlyMatch(_ []*core.MemoryRecord) {}
func (m *recordingMonitor) AfterScoring(_ []core.ScoredResult)   {}
func (m *recordingMonitor) Finish(_ *core.SearchOutcome)         { m.finished++ }
