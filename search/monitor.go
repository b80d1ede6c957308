package search

import "github.com/poiesic/artguide/core"

// SearchMonitor receives callbacks as a search progresses.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(ids []core.ID)
	VerbatimHit(record *core.Record)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                  {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.ID) {}
func (n *noopMonitor) VerbatimHit(_ *core.Record)      {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)   {}
