package search

import "github.com/poiesic/recall/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterAnalyze(intent *core.SearchIntent)
	AfterQueryEmbedding(dimensions int)
	Degraded(err error)
	DateOnlyMatch(records []*core.MemoryRecord)
	AfterScoring(scored []core.ScoredResult)
	Finish(outcome *core.SearchOutcome)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterAnalyze(_ *core.SearchIntent)    {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)            {}
func (n *noopMonitor) Degraded(_ error)                     {}
func (n *noopMonitor) DateOnlyMatch(_ []*core.MemoryRecord) {}
func (n *noopMonitor) AfterScoring(_ []core.ScoredResult)   {}
func (n *noopMonitor) Finish(_ *core.SearchOutcome)         {}
