package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or assigned by the caller.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MemoryType categorizes a memory record.
type MemoryType int

const (
	// MemoryTypeGeneral is the default, uncategorized type.
	MemoryTypeGeneral MemoryType = iota + 1
	// MemoryTypeWork covers professional notes: meetings, projects, deadlines.
	MemoryTypeWork
	// MemoryTypePersonal covers family, friends, and private life.
	MemoryTypePersonal
	// MemoryTypeLearning covers study notes and course material.
	MemoryTypeLearning
	// MemoryTypeIdea covers creative thoughts and plans.
	MemoryTypeIdea
	// MemoryTypeReminder covers tasks and scheduled items.
	MemoryTypeReminder
)

// String returns the lowercase name of the memory type.
func (t MemoryType) String() string {
	switch t {
	case MemoryTypeGeneral:
		return "general"
	case MemoryTypeWork:
		return "work"
	case MemoryTypePersonal:
		return "personal"
	case MemoryTypeLearning:
		return "learning"
	case MemoryTypeIdea:
		return "idea"
	case MemoryTypeReminder:
		return "reminder"
	default:
		return "unknown"
	}
}

// ParseMemoryType converts a lowercase type name to a MemoryType.
// Returns MemoryTypeGeneral for unrecognized names.
func ParseMemoryType(name string) MemoryType {
	switch name {
	case "work":
		return MemoryTypeWork
	case "personal":
		return MemoryTypePersonal
	case "learning":
		return MemoryTypeLearning
	case "idea":
		return MemoryTypeIdea
	case "reminder":
		return MemoryTypeReminder
	default:
		return MemoryTypeGeneral
	}
}

// MemoryTypes lists all valid memory types.
var MemoryTypes = []MemoryType{
	MemoryTypeGeneral,
	MemoryTypeWork,
	MemoryTypePersonal,
	MemoryTypeLearning,
	MemoryTypeIdea,
	MemoryTypeReminder,
}

// MemoryRecord is a stored note with metadata. The search core treats it as
// an immutable view owned by the caller and never mutates it.
type MemoryRecord struct {
	Id            ID
	Content       string
	Summary       string // Optional short summary
	Tags          []string
	Reasoning     string // Optional free-text rationale from upstream categorization
	Type          MemoryType
	Importance    int // 1-10, higher is more important
	CreatedAt     time.Time
	ScheduledDate *time.Time // Optional date the record is scheduled for
	Embedding     []float32  // Optional precomputed embedding vector
}

// EmbeddingText combines the record's searchable fields into a single
// document string for embedding generation.
func (r *MemoryRecord) EmbeddingText() string {
	parts := make([]string, 0, 6)
	if r.Content != "" {
		parts = append(parts, r.Content)
	}
	if r.Summary != "" {
		parts = append(parts, "Summary: "+r.Summary)
	}
	if len(r.Tags) > 0 {
		tags := r.Tags[0]
		for _, tag := range r.Tags[1:] {
			tags += ", " + tag
		}
		parts = append(parts, "Tags: "+tags)
	}
	parts = append(parts, "Type: "+r.Type.String())
	if r.Reasoning != "" {
		parts = append(parts, "Context: "+r.Reasoning)
	}
	if r.ScheduledDate != nil {
		parts = append(parts, "Scheduled for: "+r.ScheduledDate.Format("2006-01-02 15:04"))
	}

	text := ""
	for i, part := range parts {
		if i > 0 {
			text += " | "
		}
		text += part
	}
	return text
}

// DateKind classifies how a resolved date reference should be interpreted.
type DateKind int

const (
	// DateKindExact is a single calendar date, possibly with a time of day.
	DateKindExact DateKind = iota + 1
	// DateKindRelativeDay is a single day derived from a relative phrase.
	DateKindRelativeDay
	// DateKindRelativeRange is a span of days derived from a relative phrase.
	DateKindRelativeRange
)

// ResolvedDate is a calendar date or range extracted from query text.
// End is the zero time unless Kind is DateKindRelativeRange.
// Invariant: Start <= End whenever End is set.
type ResolvedDate struct {
	Kind         DateKind
	Start        time.Time
	End          time.Time
	SourcePhrase string // The text fragment the date was resolved from
}

// HasEnd reports whether the resolved date covers a range.
func (d ResolvedDate) HasEnd() bool {
	return !d.End.IsZero()
}

// Contains reports whether t falls on the resolved date, or inside the
// resolved range. Comparison is at day granularity.
func (d ResolvedDate) Contains(t time.Time) bool {
	day := truncateToDay(t)
	start := truncateToDay(d.Start)
	if !d.HasEnd() {
		return day.Equal(start)
	}
	end := truncateToDay(d.End)
	return !day.Before(start) && !day.After(end)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ExpandedToken is a synonym variant of a query token. Source preserves the
// original token so scoring can attribute the match.
type ExpandedToken struct {
	Term   string
	Source string
}

// SearchIntent is the analyzed form of a raw query. It is created fresh per
// search call and discarded after ranking.
type SearchIntent struct {
	RawQuery   string
	Tokens     []string        // Normalized words in query order
	Expanded   []ExpandedToken // Synonym variants, additive to Tokens
	DateRefs   []ResolvedDate
	TypeHints  []MemoryType
	IsQuestion bool
}

// HasDateRefs reports whether the query referenced any dates.
func (s *SearchIntent) HasDateRefs() bool {
	return len(s.DateRefs) > 0
}

// ScoredResult pairs a record with the signals that ranked it.
// FinalScore is a pure function of the component scores and configured
// weights; there is no hidden state.
type ScoredResult struct {
	Record        *MemoryRecord
	LexicalScore  float64
	SemanticScore float64 // Valid only when HasSemantic is true
	HasSemantic   bool
	DateBoost     float64
	FinalScore    float64
	MatchedTerms  []string
}

// Method identifies which scoring strategy produced a search outcome.
type Method string

const (
	// MethodSemantic means every surfaced result matched on embeddings alone.
	MethodSemantic Method = "semantic"
	// MethodHybrid means lexical and semantic signals both contributed.
	MethodHybrid Method = "hybrid"
	// MethodLexicalOnly means the embedding provider was unavailable for the call.
	MethodLexicalOnly Method = "lexicalOnly"
	// MethodDateOnly means the query was a bare date reference.
	MethodDateOnly Method = "dateOnly"
	// MethodFallback means no record qualified and suggestions were generated.
	MethodFallback Method = "fallback"
)

// SearchOutcome is the result of one search invocation: either an ordered
// result list with the method that produced it, or a no-match outcome
// carrying fallback suggestions.
type SearchOutcome struct {
	Results     []ScoredResult
	Method      Method
	Suggestions []string // Populated only when Method is MethodFallback
}

// IsNoMatch reports whether the search produced no qualifying records.
func (o *SearchOutcome) IsNoMatch() bool {
	return o.Method == MethodFallback
}
