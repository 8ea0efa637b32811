package openai

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/poiesic/recall/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
// Any transport failure or malformed provider response surfaces as
// ai.ErrProviderUnavailable so callers can degrade to lexical scoring.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, fmt.Errorf("%w: empty response", ai.ErrProviderUnavailable)
	}

	if err := validateVector(vectors[0]); err != nil {
		e.logger.Error("provider returned malformed vector", "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
	}
	if len(vectors) != len(texts) {
		e.logger.Error("embedding count mismatch", "want", len(texts), "got", len(vectors))
		return nil, fmt.Errorf("%w: embedding count mismatch", ai.ErrProviderUnavailable)
	}

	dim := 0
	for i, vector := range vectors {
		if err := validateVector(vector); err != nil {
			return nil, fmt.Errorf("%w: vector %d: %w", ai.ErrProviderUnavailable, i, err)
		}
		if dim == 0 {
			dim = len(vector)
		} else if len(vector) != dim {
			return nil, fmt.Errorf("%w: inconsistent dimensions in batch", ai.ErrProviderUnavailable)
		}
	}

	return vectors, nil
}

// validateVector is the strict parsing boundary for provider output.
// Loose external responses never flow into scoring logic: an empty vector
// or a non-finite component rejects the whole response.
func validateVector(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("empty vector")
	}
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite vector component")
		}
	}
	return nil
}
