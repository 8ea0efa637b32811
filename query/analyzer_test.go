package query

import (
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	require.NoError(t, err)
	return a
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"what", "s", "the", "plan", "for", "tomorrow"},
		Tokenize("What's the plan for tomorrow?"))
	assert.Equal(t, []string{"buy", "milk", "bread"}, Tokenize("buy milk, bread"))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestAnalyzeSynonymExpansion(t *testing.T) {
	intent := newAnalyzer(t).Analyze("plan the meeting", anchor)

	assert.Equal(t, []string{"plan", "the", "meeting"}, intent.Tokens)

	terms := make(map[string]string)
	for _, et := range intent.Expanded {
		terms[et.Term] = et.Source
	}
	assert.Equal(t, "plan", terms["schedule"])
	assert.Equal(t, "meeting", terms["appointment"])

	// Expansion is additive, never replaces the original token.
	assert.Contains(t, intent.Tokens, "plan")
	assert.Contains(t, intent.Tokens, "meeting")

	// Variants already present as tokens are not duplicated.
	intent = newAnalyzer(t).Analyze("plan the schedule", anchor)
	for _, et := range intent.Expanded {
		assert.NotEqual(t, "schedule", et.Term)
	}
}

func TestAnalyzeTypeHints(t *testing.T) {
	intent := newAnalyzer(t).Analyze("family meeting notes", anchor)
	assert.Contains(t, intent.TypeHints, core.MemoryTypePersonal)
	assert.Contains(t, intent.TypeHints, core.MemoryTypeWork)
	assert.Contains(t, intent.TypeHints, core.MemoryTypeReminder)

	intent = newAnalyzer(t).Analyze("blue bicycle", anchor)
	assert.Empty(t, intent.TypeHints)
}

func TestAnalyzeQuestionDetection(t *testing.T) {
	assert.True(t, newAnalyzer(t).Analyze("what did I plan", anchor).IsQuestion)
	assert.True(t, newAnalyzer(t).Analyze("when is the dentist", anchor).IsQuestion)
	assert.False(t, newAnalyzer(t).Analyze("dentist appointment", anchor).IsQuestion)
}

func TestAnalyzeDateExtraction(t *testing.T) {
	intent := newAnalyzer(t).Analyze("what's the plan for tomorrow", anchor)
	require.Len(t, intent.DateRefs, 1)
	assert.Equal(t, "tomorrow", intent.DateRefs[0].SourcePhrase)
	assert.True(t, intent.DateRefs[0].Start.Equal(time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)))

	t.Run("multi-word phrases survive tokenization", func(t *testing.T) {
		intent := newAnalyzer(t).Analyze("groceries next week", anchor)
		require.Len(t, intent.DateRefs, 1)
		assert.Equal(t, "next week", intent.DateRefs[0].SourcePhrase)
		assert.Equal(t, core.DateKindRelativeRange, intent.DateRefs[0].Kind)
	})
}

func TestAnalyzeCustomVocabulary(t *testing.T) {
	vocab := &Vocabulary{
		Synonyms:      map[string][]string{"bike": {"bicycle"}},
		TypeKeywords:  map[string][]core.MemoryType{"bike": {core.MemoryTypePersonal}},
		QuestionWords: map[string]bool{},
		PlanningWords: map[string]bool{},
	}
	a, err := NewAnalyzer(WithVocabulary(vocab))
	require.NoError(t, err)

	intent := a.Analyze("bike ride", anchor)
	require.Len(t, intent.Expanded, 1)
	assert.Equal(t, "bicycle", intent.Expanded[0].Term)
	assert.Equal(t, []core.MemoryType{core.MemoryTypePersonal}, intent.TypeHints)

	t.Run("nil vocabulary falls back to default", func(t *testing.T) {
		a, err := NewAnalyzer(WithVocabulary(nil))
		require.NoError(t, err)
		assert.NotNil(t, a.Vocabulary().Synonyms)
	})
}
