package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/mfolkers/gleaner/internal/table"
	"github.com/mfolkers/gleaner/internal/types"
)

// JSONSink writes the record set as a JSON array of objects, one object per
// row, keys in column order.
type JSONSink struct {
	dir    string
	logger *slog.Logger
}

// NewJSONSink creates a JSON sink rooted at dir.
func NewJSONSink(dir string, logger *slog.Logger) *JSONSink {
	return &JSONSink{
		dir:    dir,
		logger: logger.With("component", "json_sink"),
	}
}

func (s *JSONSink) Name() string { return "json" }

// Save writes <dir>/json/<name>_<timestamp>.json. A same-minute rerun with
// the same name overwrites the earlier file.
func (s *JSONSink) Save(ctx context.Context, t *table.Table, name string) (string, error) {
	path, err := outputPath(s.dir, "json", name, "json")
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer f.Close()

	columns := t.Columns()
	records := make([]orderedRecord, t.Len())
	for i := range records {
		records[i] = orderedRecord{columns: columns, values: t.Row(i)}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("JSON written", "path", path, "rows", t.Len())
	return path, nil
}

// orderedRecord marshals one row with keys in column order. encoding/json
// randomizes map key order, so the object is built by hand.
type orderedRecord struct {
	columns []string
	values  []string
}

func (r orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
