package sink

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"

	"github.com/mfolkers/gleaner/internal/table"
	"github.com/mfolkers/gleaner/internal/types"
)

// CSVSink writes the record set as a CSV file with a header row.
type CSVSink struct {
	dir    string
	logger *slog.Logger
}

// NewCSVSink creates a CSV sink rooted at dir.
func NewCSVSink(dir string, logger *slog.Logger) *CSVSink {
	return &CSVSink{
		dir:    dir,
		logger: logger.With("component", "csv_sink"),
	}
}

func (s *CSVSink) Name() string { return "csv" }

// Save writes <dir>/csv/<name>_<timestamp>.csv. A same-minute rerun with
// the same name overwrites the earlier file.
func (s *CSVSink) Save(ctx context.Context, t *table.Table, name string) (string, error) {
	path, err := outputPath(s.dir, "csv", name, "csv")
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	for i := 0; i < t.Len(); i++ {
		if err := w.Write(t.Row(i)); err != nil {
			return "", &types.SinkError{Backend: s.Name(), Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("CSV written", "path", path, "rows", t.Len())
	return path, nil
}
