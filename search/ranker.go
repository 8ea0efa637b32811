package search

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/query"
)

// Options tunes one ranking pass. The defaults were chosen empirically and
// validated by the property tests; treat them as a starting configuration.
type Options struct {
	TopK               int     // Maximum results returned; 0 means none
	SemanticWeight     float64 // Weight of the semantic score in the combined score
	LexicalWeight      float64 // Weight of the normalized lexical score
	SimilarityFloor    float64 // Minimum cosine similarity counted as a signal
	RelevanceThreshold float64 // Minimum combined score to surface a result
	DateBoost          float64 // Additive bonus for records scheduled on a queried date
}

// DefaultOptions returns the standard ranking configuration.
func DefaultOptions() Options {
	return Options{
		TopK:               10,
		SemanticWeight:     0.7,
		LexicalWeight:      0.3,
		SimilarityFloor:    0.3,
		RelevanceThreshold: 0.15,
		DateBoost:          0.5,
	}
}

// Validate checks the options for out-of-range values.
func (o Options) Validate() error {
	if o.TopK < 0 {
		return fmt.Errorf("%w: topK must be >= 0", ErrInvalidOptions)
	}
	if o.SemanticWeight < 0 || o.LexicalWeight < 0 {
		return fmt.Errorf("%w: weights must be >= 0", ErrInvalidOptions)
	}
	if o.SimilarityFloor < 0 || o.SimilarityFloor > 1 {
		return fmt.Errorf("%w: similarity floor must be in [0,1]", ErrInvalidOptions)
	}
	if o.RelevanceThreshold < 0 {
		return fmt.Errorf("%w: relevance threshold must be >= 0", ErrInvalidOptions)
	}
	if o.DateBoost < 0 {
		return fmt.Errorf("%w: date boost must be >= 0", ErrInvalidOptions)
	}
	return nil
}

// HybridRanker combines lexical and semantic scores into one ordered result
// list. It is stateless across calls; every Rank invocation is independent.
type HybridRanker struct {
	lexical LexicalMatcher
	vocab   *query.Vocabulary
	logger  *slog.Logger
}

// NewHybridRanker creates a ranker sharing the analyzer's vocabulary so the
// meaningful-token filter and the fallback suggester interpret planning
// vocabulary the same way the analyzer does.
func NewHybridRanker(vocab *query.Vocabulary, logger *slog.Logger) *HybridRanker {
	if vocab == nil {
		vocab = query.DefaultVocabulary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridRanker{vocab: vocab, logger: logger}
}

// Rank scores records against the intent and returns an ordered outcome.
//
// A query with a date reference but no meaningful tokens takes the date-only
// path: every record scheduled inside a resolved range is returned, ordered
// by scheduled date then importance, without any text scoring. Otherwise the
// combined score is semanticWeight*semantic + lexicalWeight*(lexical/maxLex),
// plus the date boost, filtered by the relevance threshold. The only error is
// an embedding dimension mismatch, which is fatal to the call.
func (r *HybridRanker) Rank(
	intent *core.SearchIntent,
	records []*core.MemoryRecord,
	queryEmbedding []float32,
	opts Options,
	monitor SearchMonitor,
) (*core.SearchOutcome, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	meaningful := meaningfulTokens(intent, r.vocab)
	if intent.HasDateRefs() && len(meaningful) == 0 {
		return r.rankByDate(intent, records, opts, monitor), nil
	}

	semantic := NewSemanticMatcher(opts.SimilarityFloor)

	scored := make([]core.ScoredResult, 0, len(records))
	maxLexical := 0.0
	for _, record := range records {
		if record == nil {
			continue
		}

		lexicalScore, matched := r.lexical.Score(intent, record)
		if lexicalScore > maxLexical {
			maxLexical = lexicalScore
		}

		semanticScore, hasSemantic, err := semantic.Score(queryEmbedding, record)
		if err != nil {
			r.logger.Error("embedding dimension mismatch", "recordId", record.Id, "err", err)
			return nil, err
		}

		scored = append(scored, core.ScoredResult{
			Record:        record,
			LexicalScore:  lexicalScore,
			SemanticScore: semanticScore,
			HasSemantic:   hasSemantic,
			MatchedTerms:  matched,
		})
	}

	results := make([]core.ScoredResult, 0, len(scored))
	for _, result := range scored {
		normalizedLexical := 0.0
		if maxLexical > 0 {
			normalizedLexical = result.LexicalScore / maxLexical
		}

		if result.HasSemantic {
			result.FinalScore = opts.SemanticWeight*result.SemanticScore + opts.LexicalWeight*normalizedLexical
		} else {
			result.FinalScore = normalizedLexical
		}

		if intent.HasDateRefs() && scheduledInRange(result.Record, intent.DateRefs) {
			result.DateBoost = opts.DateBoost
			result.FinalScore += opts.DateBoost
		}

		if result.FinalScore >= opts.RelevanceThreshold && result.FinalScore > 0 {
			results = append(results, result)
		}
	}
	monitor.AfterScoring(results)

	if len(results) == 0 {
		return r.fallback(intent, records, monitor), nil
	}

	sortResults(results)

	method := r.methodFor(results, queryEmbedding)
	if opts.TopK < len(results) {
		results = results[:opts.TopK]
	}

	outcome := &core.SearchOutcome{Results: results, Method: method}
	monitor.Finish(outcome)
	return outcome, nil
}

// rankByDate returns every record scheduled inside a resolved range, ordered
// by scheduled date ascending, then importance descending.
func (r *HybridRanker) rankByDate(
	intent *core.SearchIntent,
	records []*core.MemoryRecord,
	opts Options,
	monitor SearchMonitor,
) *core.SearchOutcome {
	matched := make([]*core.MemoryRecord, 0)
	for _, record := range records {
		if record == nil {
			continue
		}
		if scheduledInRange(record, intent.DateRefs) {
			matched = append(matched, record)
		}
	}
	monitor.DateOnlyMatch(matched)

	if len(matched) == 0 {
		return r.fallback(intent, records, monitor)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.ScheduledDate.Equal(*b.ScheduledDate) {
			return a.ScheduledDate.Before(*b.ScheduledDate)
		}
		if a.Importance != b.Importance {
			return a.Importance > b.Importance
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Id < b.Id
	})

	if opts.TopK < len(matched) {
		matched = matched[:opts.TopK]
	}
	results := make([]core.ScoredResult, 0, len(matched))
	for _, record := range matched {
		results = append(results, core.ScoredResult{Record: record, DateBoost: opts.DateBoost})
	}

	outcome := &core.SearchOutcome{Results: results, Method: core.MethodDateOnly}
	monitor.Finish(outcome)
	return outcome
}

func (r *HybridRanker) fallback(intent *core.SearchIntent, records []*core.MemoryRecord, monitor SearchMonitor) *core.SearchOutcome {
	stats := ComputeCorpusStats(records)
	outcome := &core.SearchOutcome{
		Results:     []core.ScoredResult{},
		Method:      core.MethodFallback,
		Suggestions: Suggest(intent, stats, r.vocab),
	}
	monitor.Finish(outcome)
	return outcome
}

// methodFor reports how the surfaced results were produced: hybrid when both
// signals contributed, semantic when every surfaced result matched on
// embeddings alone, lexicalOnly otherwise.
func (r *HybridRanker) methodFor(results []core.ScoredResult, queryEmbedding []float32) core.Method {
	if len(queryEmbedding) == 0 {
		return core.MethodLexicalOnly
	}
	anySemantic := false
	anyLexical := false
	for _, result := range results {
		if result.HasSemantic {
			anySemantic = true
		}
		if result.LexicalScore > 0 {
			anyLexical = true
		}
	}
	switch {
	case anySemantic && anyLexical:
		return core.MethodHybrid
	case anySemantic:
		return core.MethodSemantic
	default:
		return core.MethodLexicalOnly
	}
}

// sortResults orders by final score descending with fully deterministic
// tie-breaks: importance descending, creation time descending, id ascending.
func sortResults(results []core.ScoredResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.Record.Importance != b.Record.Importance {
			return a.Record.Importance > b.Record.Importance
		}
		if !a.Record.CreatedAt.Equal(b.Record.CreatedAt) {
			return a.Record.CreatedAt.After(b.Record.CreatedAt)
		}
		return a.Record.Id < b.Record.Id
	})
}

func scheduledInRange(record *core.MemoryRecord, refs []core.ResolvedDate) bool {
	if record.ScheduledDate == nil {
		return false
	}
	for _, ref := range refs {
		if ref.Contains(*record.ScheduledDate) {
			return true
		}
	}
	return false
}
