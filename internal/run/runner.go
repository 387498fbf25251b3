// Package run wires one configured scrape into a pipeline execution.
package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfolkers/gleaner/internal/config"
	"github.com/mfolkers/gleaner/internal/fetcher"
	"github.com/mfolkers/gleaner/internal/pipeline"
	"github.com/mfolkers/gleaner/internal/scrape"
	"github.com/mfolkers/gleaner/internal/sink"
)

// Runner executes one scrape-enrich-save run.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Runner for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the pipeline: listing scrape, optional enrichment, table
// middleware, sink. The sink is resolved first so a bad strategy fails
// before any network activity.
func (r *Runner) Run(ctx context.Context) error {
	out, err := sink.New(&r.cfg.Output, r.logger)
	if err != nil {
		return err
	}

	f := fetcher.NewHTTPFetcher(r.cfg, r.logger)
	defer f.Close()

	scraper := scrape.New(r.cfg, f, r.logger)

	r.logger.Info("scraping listing pages",
		"base_url", r.cfg.Source.BaseURL,
		"pagination", r.cfg.Source.Pagination,
		"fields", len(r.cfg.Fields),
	)
	t, err := scraper.ScrapeListing(ctx)
	if err != nil {
		return fmt.Errorf("scrape listing: %w", err)
	}

	if r.cfg.Enrich.Enabled {
		r.logger.Info("enriching from detail pages",
			"column", r.cfg.Enrich.Column,
			"link_column", r.cfg.Enrich.LinkColumn,
			"rows", t.Len(),
			"workers", r.cfg.Fetcher.Concurrency,
		)
		if err := scraper.EnrichColumn(ctx, t, r.cfg.Enrich.Column, r.cfg.Enrich.LinkColumn, r.cfg.Enrich.Selectors); err != nil {
			return fmt.Errorf("enrich column %q: %w", r.cfg.Enrich.Column, err)
		}
	}

	pipe := pipeline.FromConfig(&r.cfg.Pipeline, r.logger)
	if err := pipe.Process(t); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	r.logger.Info("extracted records", "rows", t.Len(), "stats", scraper.Stats().Snapshot())

	location, err := out.Save(ctx, t, r.cfg.Output.Name)
	if err != nil {
		return err
	}
	r.logger.Info("saved", "strategy", out.Name(), "location", location)

	return nil
}
