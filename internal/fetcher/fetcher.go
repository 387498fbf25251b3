package fetcher

import (
	"context"

	"github.com/mfolkers/gleaner/internal/types"
)

// Fetcher retrieves pages for the listing scraper and the enricher.
type Fetcher interface {
	// Fetch performs a single GET of url. Network errors, timeouts and
	// non-2xx statuses are returned as *types.FetchError; callers treat
	// them as "no data" and never as fatal.
	Fetch(ctx context.Context, url string) (*types.Page, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
