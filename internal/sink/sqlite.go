package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mfolkers/gleaner/internal/table"
	"github.com/mfolkers/gleaner/internal/types"
)

// SQLiteSink appends the record set to a table named after the run's output
// name in a local SQLite database. The table is created if absent, with TEXT
// affinity for every column; there is no schema migration and no upsert, so
// reruns with the same name append.
type SQLiteSink struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteSink creates a SQLite sink writing to the database at path.
func NewSQLiteSink(path string, logger *slog.Logger) *SQLiteSink {
	return &SQLiteSink{
		path:   path,
		logger: logger.With("component", "sqlite_sink"),
	}
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// Save appends all rows to the table called name.
func (s *SQLiteSink) Save(ctx context.Context, t *table.Table, name string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	columns := t.Columns()
	if err := s.ensureTable(ctx, db, name, columns); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL(name, columns))
	if err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		args := make([]any, len(row))
		for j, v := range row {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", &types.SinkError{Backend: s.Name(), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", &types.SinkError{Backend: s.Name(), Err: err}
	}

	location := fmt.Sprintf("%s#%s", s.path, name)
	s.logger.Info("rows appended to sqlite", "db", s.path, "table", name, "rows", t.Len())
	return location, nil
}

// ensureTable creates the destination table when it does not exist yet.
func (s *SQLiteSink) ensureTable(ctx context.Context, db *sql.DB, name string, columns []string) error {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(sqlIdent(name))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c))
		b.WriteString(" TEXT")
	}
	b.WriteString(")")

	_, err := db.ExecContext(ctx, b.String())
	return err
}

func insertSQL(name string, columns []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(name))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c))
	}
	b.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
	}
	b.WriteString(")")
	return b.String()
}

// sqlIdent quotes an identifier so arbitrary field names are safe.
func sqlIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
