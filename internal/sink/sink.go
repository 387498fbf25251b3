// Package sink serializes a finished record set to durable storage.
//
// Each strategy is selected by name from a closed enum at configuration
// time. File strategies write a fresh timestamped file per run under a
// per-format directory; the table strategies (sqlite, mongo) append to a
// table/collection named after the run's output name.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mfolkers/gleaner/internal/config"
	"github.com/mfolkers/gleaner/internal/table"
	"github.com/mfolkers/gleaner/internal/types"
)

// Sink persists one record set under a run name.
type Sink interface {
	// Save writes the table and returns the location written to
	// (file path, or table/collection identifier).
	Save(ctx context.Context, t *table.Table, name string) (string, error)

	// Name returns the strategy identifier.
	Name() string
}

// New resolves the configured save strategy. An unsupported value is a
// configuration error, surfaced before any network activity.
func New(cfg *config.OutputConfig, logger *slog.Logger) (Sink, error) {
	switch cfg.Strategy {
	case "csv":
		return NewCSVSink(cfg.Dir, logger), nil
	case "json":
		return NewJSONSink(cfg.Dir, logger), nil
	case "xml":
		return NewXMLSink(cfg.Dir, logger), nil
	case "sqlite":
		return NewSQLiteSink(cfg.SQLitePath, logger), nil
	case "mongo":
		return NewMongoSink(cfg.MongoURI, cfg.MongoDatabase, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrNoSuchSink, cfg.Strategy)
	}
}

// outputPath builds <dir>/<format>/<name>_<YYYYMMDDHHmm>.<ext> and creates
// the intermediate directories. Two runs in the same minute with the same
// name collide; the later write overwrites (see the strategy docs).
func outputPath(dir, format, name, ext string) (string, error) {
	ts := time.Now().Format("200601021504")
	path := filepath.Join(dir, format, fmt.Sprintf("%s_%s.%s", name, ts, ext))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return path, nil
}
