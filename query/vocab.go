package query

import "github.com/poiesic/recall/core"

// Vocabulary holds the hand-curated term tables driving query analysis.
// The contents are a tunable parameter, not a fixed contract: callers may
// supply their own tables via WithVocabulary.
type Vocabulary struct {
	// Synonyms maps a canonical term to its variants. Expansion is additive;
	// the original token is always kept.
	Synonyms map[string][]string

	// TypeKeywords maps a token to the memory types it hints at. A token may
	// contribute to more than one type.
	TypeKeywords map[string][]core.MemoryType

	// QuestionWords are interrogative tokens that mark a query as a question.
	QuestionWords map[string]bool

	// PlanningWords are vague scheduling terms. A question built from these
	// and a date reference ("what's the plan for tomorrow") is a date query,
	// not a text query, and the fallback asks for a concrete date when the
	// date is missing.
	PlanningWords map[string]bool
}

// DefaultVocabulary returns the built-in term tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Synonyms: map[string][]string{
			"plan":     {"plans", "planning", "schedule", "scheduled", "arrange", "arrangement", "organize", "prepare"},
			"meeting":  {"appointment", "call", "conference", "discussion", "session"},
			"call":     {"phone", "contact", "dial", "ring"},
			"buy":      {"purchase", "shop", "shopping", "groceries"},
			"task":     {"todo", "errand", "chore"},
			"study":    {"learn", "learning", "course", "class"},
			"trip":     {"travel", "flight", "vacation"},
			"doctor":   {"dentist", "checkup", "clinic"},
			"tomorrow": {"upcoming"},
		},
		TypeKeywords: map[string][]core.MemoryType{
			"work":        {core.MemoryTypeWork},
			"job":         {core.MemoryTypeWork},
			"meeting":     {core.MemoryTypeWork, core.MemoryTypeReminder},
			"project":     {core.MemoryTypeWork},
			"office":      {core.MemoryTypeWork},
			"deadline":    {core.MemoryTypeWork, core.MemoryTypeReminder},
			"personal":    {core.MemoryTypePersonal},
			"family":      {core.MemoryTypePersonal},
			"friend":      {core.MemoryTypePersonal},
			"kids":        {core.MemoryTypePersonal},
			"learning":    {core.MemoryTypeLearning},
			"study":       {core.MemoryTypeLearning},
			"course":      {core.MemoryTypeLearning},
			"class":       {core.MemoryTypeLearning},
			"idea":        {core.MemoryTypeIdea},
			"creative":    {core.MemoryTypeIdea},
			"reminder":    {core.MemoryTypeReminder},
			"task":        {core.MemoryTypeReminder},
			"todo":        {core.MemoryTypeReminder},
			"appointment": {core.MemoryTypeReminder},
		},
		QuestionWords: wordSet("what", "when", "where", "who", "why", "how", "which"),
		PlanningWords: wordSet("plan", "plans", "planning", "schedule", "scheduled", "appointment", "agenda", "arrange", "organize"),
	}
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
