// Package scrape drives the two-phase pipeline: listing pages into a record
// set, then optional per-row enrichment from detail pages.
package scrape

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mfolkers/gleaner/internal/config"
	"github.com/mfolkers/gleaner/internal/extract"
	"github.com/mfolkers/gleaner/internal/fetcher"
	"github.com/mfolkers/gleaner/internal/table"
)

// Scraper is the extraction contract of the pipeline.
type Scraper interface {
	// ScrapeListing fetches every listing page and returns the aligned
	// record set. Fetch failures skip the page and are never fatal.
	ScrapeListing(ctx context.Context) (*table.Table, error)

	// BuildTable creates an empty record set with the scraper's column order.
	BuildTable() *table.Table

	// EnrichColumn fills column on every row from the detail page behind
	// the row's linkColumn value, using the first selector that matches.
	// Row count and row order are preserved.
	EnrichColumn(ctx context.Context, t *table.Table, column, linkColumn string, selectors []string) error
}

// ListingScraper implements Scraper against a Pager and a Fetcher.
type ListingScraper struct {
	fetcher     fetcher.Fetcher
	extractor   *extract.Extractor
	pager       *extract.Pager
	rules       []extract.Rule
	linkBase    string
	concurrency int
	logger      *slog.Logger
	stats       *Stats
}

// New creates a ListingScraper from the run configuration.
func New(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger) *ListingScraper {
	rules := make([]extract.Rule, len(cfg.Fields))
	for i, fr := range cfg.Fields {
		rules[i] = extract.Rule{Name: fr.Name, Selector: fr.Selector}
	}

	return &ListingScraper{
		fetcher:   f,
		extractor: extract.New(logger),
		pager: extract.NewPager(
			cfg.Source.BaseURL,
			cfg.Source.StartPage,
			cfg.Source.EndPage,
			cfg.Source.PageParam,
			cfg.Source.Pagination,
		),
		rules:       rules,
		linkBase:    strings.TrimRight(cfg.Source.LinkBase, "/"),
		concurrency: cfg.Fetcher.Concurrency,
		logger:      logger.With("component", "scraper"),
		stats:       &Stats{},
	}
}

// Stats returns the run counters.
func (s *ListingScraper) Stats() *Stats {
	return s.stats
}

// BuildTable creates an empty record set with one column per field rule.
func (s *ListingScraper) BuildTable() *table.Table {
	columns := make([]string, len(s.rules))
	for i, r := range s.rules {
		columns[i] = r.Name
	}
	return table.New(columns)
}

// ScrapeListing fetches every page the pager yields and accumulates the
// extracted fields. Pages whose fields matched differing numbers of nodes
// are truncated to the shortest field, which is logged as a warning.
func (s *ListingScraper) ScrapeListing(ctx context.Context) (*table.Table, error) {
	t := s.BuildTable()
	if len(s.rules) == 0 {
		return t, nil
	}

	for _, url := range s.pager.URLs() {
		if err := ctx.Err(); err != nil {
			// Rows from completed pages are kept; nothing is rolled back.
			return t, err
		}

		s.logger.Info("requesting listing page", "url", url)
		page, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.stats.PagesFailed.Add(1)
			s.logger.Warn("listing page skipped", "url", url, "error", err)
			continue
		}
		s.stats.PagesFetched.Add(1)

		doc, err := page.Document()
		if err != nil {
			s.stats.PagesFailed.Add(1)
			s.logger.Warn("listing page unparseable", "url", url, "error", err)
			continue
		}

		fields := s.extractor.Fields(doc, s.rules)
		rows, truncated := t.AppendPage(fields)
		if truncated {
			s.stats.Truncations.Add(1)
			s.logger.Warn("truncating mismatched field lengths",
				"url", url,
				"rows_kept", rows,
				"lengths", fieldLengths(s.rules, fields),
			)
		}
		s.stats.RowsExtracted.Add(int64(rows))
	}

	return t, nil
}

// resolveLink turns a row's link value into a fetchable URL.
func (s *ListingScraper) resolveLink(link string) string {
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http") {
		return link
	}
	return s.linkBase + link
}

func fieldLengths(rules []extract.Rule, fields map[string][]string) map[string]int {
	lengths := make(map[string]int, len(rules))
	for _, r := range rules {
		lengths[r.Name] = len(fields[r.Name])
	}
	return lengths
}
