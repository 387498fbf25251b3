// Package pipeline post-processes a record set before it reaches the sink.
package pipeline

import (
	"log/slog"
	"strings"

	"github.com/mfolkers/gleaner/internal/config"
	"github.com/mfolkers/gleaner/internal/table"
)

// Middleware transforms a record set in place.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms the table.
	Process(t *table.Table) error
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// FromConfig builds the middleware chain the config asks for.
func FromConfig(cfg *config.PipelineConfig, logger *slog.Logger) *Pipeline {
	p := New(logger)
	if cfg.Trim {
		p.Use(&TrimMiddleware{})
	}
	if len(cfg.Defaults) > 0 {
		p.Use(&DefaultValueMiddleware{Defaults: cfg.Defaults})
	}
	if len(cfg.Required) > 0 {
		p.Use(&RequiredColumnsMiddleware{Columns: cfg.Required})
	}
	return p
}

// Use adds a middleware to the chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// Process runs the table through all middleware in order.
func (p *Pipeline) Process(t *table.Table) error {
	for _, mw := range p.middlewares {
		before := t.Len()
		if err := mw.Process(t); err != nil {
			return err
		}
		if dropped := before - t.Len(); dropped > 0 {
			p.logger.Debug("rows dropped", "stage", mw.Name(), "dropped", dropped)
		}
	}
	return nil
}

// --- Built-in middleware ---

// TrimMiddleware trims whitespace from every cell.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(t *table.Table) error {
	for _, c := range t.Columns() {
		col := t.Column(c)
		for i, v := range col {
			col[i] = strings.TrimSpace(v)
		}
	}
	return nil
}

// DefaultValueMiddleware fills empty cells of named columns with a default.
type DefaultValueMiddleware struct {
	Defaults map[string]string
}

func (m *DefaultValueMiddleware) Name() string { return "default_values" }

func (m *DefaultValueMiddleware) Process(t *table.Table) error {
	for column, def := range m.Defaults {
		if !t.HasColumn(column) {
			continue
		}
		col := t.Column(column)
		for i, v := range col {
			if v == "" {
				col[i] = def
			}
		}
	}
	return nil
}

// RequiredColumnsMiddleware drops rows with an empty cell in any required column.
type RequiredColumnsMiddleware struct {
	Columns []string
}

func (m *RequiredColumnsMiddleware) Name() string { return "required_columns" }

func (m *RequiredColumnsMiddleware) Process(t *table.Table) error {
	var drop []int
	for i := 0; i < t.Len(); i++ {
		for _, c := range m.Columns {
			if t.HasColumn(c) && t.Cell(i, c) == "" {
				drop = append(drop, i)
				break
			}
		}
	}
	t.DeleteRows(drop)
	return nil
}
