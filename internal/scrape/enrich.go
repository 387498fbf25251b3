package scrape

import (
	"context"
	"fmt"
	"sync"

	"github.com/mfolkers/gleaner/internal/table"
)

// EnrichColumn fetches the detail page behind every row's linkColumn value
// and writes the first selector match into column (added if absent).
//
// Rows are distributed over a bounded worker pool; results are written back
// by row index, so the output order never depends on completion order.
// A failed fetch or an unmatched selector list leaves the cell empty.
func (s *ListingScraper) EnrichColumn(ctx context.Context, t *table.Table, column, linkColumn string, selectors []string) error {
	if !t.HasColumn(linkColumn) {
		return fmt.Errorf("link column %q not present in record set", linkColumn)
	}
	t.AddColumn(column)

	n := t.Len()
	if n == 0 {
		return nil
	}

	workers := s.concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	results := make([]string, n)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.enrichCell(ctx, t.Cell(i, linkColumn), selectors)
			}
		}()
	}

	var canceled error
dispatch:
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			canceled = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := 0; i < n; i++ {
		if err := t.SetCell(i, column, results[i]); err != nil {
			return err
		}
	}
	return canceled
}

// enrichCell resolves and fetches one row's detail page and extracts the
// first matching value. Any failure yields an empty cell, never an error.
func (s *ListingScraper) enrichCell(ctx context.Context, link string, selectors []string) string {
	url := s.resolveLink(link)
	if url == "" {
		s.stats.CellsMissed.Add(1)
		return ""
	}

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.stats.CellsMissed.Add(1)
		s.logger.Warn("detail page skipped", "url", url, "error", err)
		return ""
	}

	doc, err := page.Document()
	if err != nil {
		s.stats.CellsMissed.Add(1)
		s.logger.Warn("detail page unparseable", "url", url, "error", err)
		return ""
	}

	value, ok := s.extractor.FirstMatch(doc, selectors)
	if !ok {
		s.stats.CellsMissed.Add(1)
		return ""
	}
	s.stats.CellsEnriched.Add(1)
	return value
}
