package search

import (
	"fmt"
	"math"

	"github.com/poiesic/recall/core"
)

// SemanticMatcher scores records by cosine similarity between the query
// embedding and the record embedding.
type SemanticMatcher struct {
	floor float64
}

// NewSemanticMatcher creates a matcher with the given similarity floor.
// Matches below the floor are reported as absent, so a nearly-unrelated
// vector cannot crowd out strong lexical matches.
func NewSemanticMatcher(floor float64) *SemanticMatcher {
	return &SemanticMatcher{floor: floor}
}

// Score returns the similarity and whether a semantic signal exists. The
// signal is absent when either embedding is missing or the similarity falls
// below the floor; absence is not a zero score. Mismatched vector lengths
// are a configuration error and fail the whole search call.
func (m *SemanticMatcher) Score(queryEmbedding []float32, record *core.MemoryRecord) (float64, bool, error) {
	if len(queryEmbedding) == 0 || len(record.Embedding) == 0 {
		return 0, false, nil
	}

	similarity, err := CosineSimilarity(queryEmbedding, record.Embedding)
	if err != nil {
		return 0, false, err
	}
	if similarity < m.floor {
		return 0, false, nil
	}
	return similarity, true, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Returns core.ErrInvalidEmbeddingDimension when the lengths differ.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", core.ErrInvalidEmbeddingDimension, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
