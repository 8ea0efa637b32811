package search

import (
	"strings"

	"github.com/poiesic/recall/core"
)

// CorpusStats holds tag and type occurrence counts over the visible record
// set. The fallback suggester uses it to propose alternative searches.
type CorpusStats struct {
	Tags  map[string]int
	Types map[core.MemoryType]int
}

// ComputeCorpusStats counts tag and type occurrences across records.
// Tags are lowercased so counting matches the tokenizer's casing.
func ComputeCorpusStats(records []*core.MemoryRecord) *CorpusStats {
	stats := &CorpusStats{
		Tags:  make(map[string]int),
		Types: make(map[core.MemoryType]int),
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		for _, tag := range record.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				stats.Tags[tag]++
			}
		}
		stats.Types[record.Type]++
	}
	return stats
}
