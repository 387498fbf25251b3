package scrape

import (
	"sync/atomic"
)

// Stats tracks counters for one scrape run.
type Stats struct {
	PagesFetched  atomic.Int64
	PagesFailed   atomic.Int64
	RowsExtracted atomic.Int64
	Truncations   atomic.Int64
	CellsEnriched atomic.Int64
	CellsMissed   atomic.Int64
}

// Snapshot returns a copy of the counters safe for logging.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"pages_fetched":  s.PagesFetched.Load(),
		"pages_failed":   s.PagesFailed.Load(),
		"rows_extracted": s.RowsExtracted.Load(),
		"truncations":    s.Truncations.Load(),
		"cells_enriched": s.CellsEnriched.Load(),
		"cells_missed":   s.CellsMissed.Load(),
	}
}
