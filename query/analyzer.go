package query

import (
	"strings"
	"time"
	"unicode"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/dates"
)

// Analyzer extracts search intent from raw query text.
type Analyzer struct {
	vocab *Vocabulary
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithVocabulary sets a custom vocabulary.
// Default is DefaultVocabulary().
func WithVocabulary(vocab *Vocabulary) Option {
	return func(a *Analyzer) error {
		if vocab == nil {
			vocab = DefaultVocabulary()
		}
		a.vocab = vocab
		return nil
	}
}

// NewAnalyzer creates a new query analyzer.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{vocab: DefaultVocabulary()}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Vocabulary returns the analyzer's term tables. Shared with the fallback
// suggester so both interpret planning vocabulary identically.
func (a *Analyzer) Vocabulary() *Vocabulary {
	return a.vocab
}

// Analyze derives a SearchIntent from the raw query, resolving date
// references against the anchor time. Date extraction runs over the full
// raw query, not per token, so multi-word phrases stay intact.
func (a *Analyzer) Analyze(rawQuery string, anchor time.Time) core.SearchIntent {
	tokens := Tokenize(rawQuery)

	intent := core.SearchIntent{
		RawQuery: rawQuery,
		Tokens:   tokens,
		DateRefs: dates.Resolve(rawQuery, anchor),
	}

	seenTerms := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		seenTerms[token] = true
	}
	seenTypes := make(map[core.MemoryType]bool)

	for _, token := range tokens {
		for _, variant := range a.vocab.Synonyms[token] {
			if seenTerms[variant] {
				continue
			}
			seenTerms[variant] = true
			intent.Expanded = append(intent.Expanded, core.ExpandedToken{Term: variant, Source: token})
		}

		for _, hint := range a.vocab.TypeKeywords[token] {
			if !seenTypes[hint] {
				seenTypes[hint] = true
				intent.TypeHints = append(intent.TypeHints, hint)
			}
		}

		if a.vocab.QuestionWords[token] {
			intent.IsQuestion = true
		}
	}

	return intent
}

// Tokenize lowercases text and splits it on non-alphanumeric boundaries.
// Single-character tokens are kept deliberately so short but meaningful
// words are not lost.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
