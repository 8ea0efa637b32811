package search

import (
	"fmt"
	"sort"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/query"
)

const maxSuggestions = 5

// Suggest produces fallback suggestions for a query that matched nothing.
//
// A vague planning question with no date ("what are my plans?") gets
// clarification prompts asking for a concrete date rather than surfacing
// arbitrary old records. Anything else gets up to five suggestions drawn
// from the most frequent tags and types in the corpus that the query did
// not already mention, ordered by frequency descending then alphabetically.
func Suggest(intent *core.SearchIntent, stats *CorpusStats, vocab *query.Vocabulary) []string {
	if intent.IsQuestion && !intent.HasDateRefs() && hasPlanningWord(intent, vocab) {
		return []string{
			"Try asking about a specific day, like 'what's the plan for tomorrow'",
			"Name a date or weekday, for example 'schedule for Friday'",
		}
	}

	queryTerms := make(map[string]bool, len(intent.Tokens)+len(intent.Expanded))
	for _, token := range intent.Tokens {
		queryTerms[token] = true
	}
	for _, expanded := range intent.Expanded {
		queryTerms[expanded.Term] = true
	}

	type candidate struct {
		label string
		text  string
		count int
	}
	candidates := make([]candidate, 0, len(stats.Tags)+len(stats.Types))

	for tag, count := range stats.Tags {
		if queryTerms[tag] {
			continue
		}
		candidates = append(candidates, candidate{
			label: tag,
			text:  fmt.Sprintf("Search for '%s'", tag),
			count: count,
		})
	}
	for memoryType, count := range stats.Types {
		name := memoryType.String()
		if queryTerms[name] {
			continue
		}
		candidates = append(candidates, candidate{
			label: name,
			text:  fmt.Sprintf("Show %s memories", name),
			count: count,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].label < candidates[j].label
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.text)
	}
	return suggestions
}

func hasPlanningWord(intent *core.SearchIntent, vocab *query.Vocabulary) bool {
	for _, token := range intent.Tokens {
		if vocab.PlanningWords[token] {
			return true
		}
	}
	return false
}
