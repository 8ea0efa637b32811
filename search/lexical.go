package search

import (
	"strings"

	"github.com/poiesic/recall/core"
)

// Lexical scoring weights. Scores are additive and unnormalized; they are
// comparable only within a single ranking pass.
const (
	phraseWeight    = 10.0
	contentWeight   = 2.0
	summaryWeight   = 1.0
	reasoningWeight = 1.0
	tagWeight       = 1.0
	synonymFactor   = 0.5
)

// LexicalMatcher scores records by literal and synonym token overlap.
type LexicalMatcher struct{}

// Score computes the lexical score for a record against the analyzed query.
// The returned matched terms name every token or synonym variant that
// contributed weight, for explainability. A zero score never excludes a
// record here; exclusion is the ranker's job.
func (m *LexicalMatcher) Score(intent *core.SearchIntent, record *core.MemoryRecord) (float64, []string) {
	score := 0.0
	matched := make([]string, 0, 4)
	seen := make(map[string]bool)

	contribute := func(term string, weight float64) {
		score += weight
		if !seen[term] {
			seen[term] = true
			matched = append(matched, term)
		}
	}

	if containsPhrase(record.Content, intent.RawQuery) || containsPhrase(record.Summary, intent.RawQuery) {
		contribute(strings.ToLower(intent.RawQuery), phraseWeight)
	}

	contentTokens := fieldTokenSet(record.Content)
	summaryTokens := fieldTokenSet(record.Summary)
	reasoningTokens := fieldTokenSet(record.Reasoning)
	tags := make(map[string]bool, len(record.Tags))
	for _, tag := range record.Tags {
		tags[strings.ToLower(tag)] = true
	}

	scoreTerm := func(term string, factor float64) {
		if contentTokens[term] {
			contribute(term, contentWeight*factor)
		}
		if summaryTokens[term] {
			contribute(term, summaryWeight*factor)
		}
		if reasoningTokens[term] {
			contribute(term, reasoningWeight*factor)
		}
		if tags[term] {
			contribute(term, tagWeight*factor)
		}
	}

	for _, token := range intent.Tokens {
		scoreTerm(token, 1.0)
	}
	for _, expanded := range intent.Expanded {
		scoreTerm(expanded.Term, synonymFactor)
	}

	return score, matched
}
