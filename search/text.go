package search

import (
	"strings"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/query"
)

// Stop words carry no search intent on their own.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "my": true, "me": true, "i": true, "any": true,
	"there": true, "about": true,
}

// meaningfulTokens filters the intent's tokens down to the words that should
// drive text matching. Stop words, interrogatives, vague planning vocabulary,
// single characters, and the words that formed a resolved date phrase are all
// removed. A query whose every token is filtered here, but which carries a
// date reference, is a date query ("what's the plan for tomorrow") and takes
// the date-only ranking path.
func meaningfulTokens(intent *core.SearchIntent, vocab *query.Vocabulary) []string {
	dateWords := make(map[string]bool)
	for _, ref := range intent.DateRefs {
		for _, w := range query.Tokenize(ref.SourcePhrase) {
			dateWords[w] = true
		}
	}

	meaningful := make([]string, 0, len(intent.Tokens))
	for _, token := range intent.Tokens {
		if len(token) < 2 {
			continue
		}
		if stopWords[token] || vocab.QuestionWords[token] || vocab.PlanningWords[token] {
			continue
		}
		if dateWords[token] {
			continue
		}
		meaningful = append(meaningful, token)
	}
	return meaningful
}

// fieldTokenSet tokenizes a record field for word-boundary matching.
func fieldTokenSet(text string) map[string]bool {
	tokens := query.Tokenize(text)
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

// containsPhrase reports whether the query phrase appears verbatim in the
// field, case-insensitively.
func containsPhrase(field, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(phrase))
}
