// Package table implements the columnar record set produced by a scrape run.
//
// A Table keeps one string column per declared field, all columns the same
// length. Rows are appended page by page; within one page, fields whose
// selectors matched a different number of nodes are truncated to the
// shortest field so rows stay aligned.
package table

import (
	"fmt"
)

// Table is an ordered set of named string columns of equal length.
type Table struct {
	columns []string
	data    map[string][]string
}

// New creates an empty Table with the given column order.
func New(columns []string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		data:    make(map[string][]string, len(columns)),
	}
	for _, c := range t.columns {
		t.data[c] = []string{}
	}
	return t
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.data[t.columns[0]])
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns the values of the named column.
func (t *Table) Column(name string) []string {
	return t.data[name]
}

// Cell returns the value at (row, column).
func (t *Table) Cell(row int, column string) string {
	col, ok := t.data[column]
	if !ok || row < 0 || row >= len(col) {
		return ""
	}
	return col[row]
}

// SetCell sets the value at (row, column). The column must exist and the
// row must be in range.
func (t *Table) SetCell(row int, column, value string) error {
	col, ok := t.data[column]
	if !ok {
		return fmt.Errorf("no such column %q", column)
	}
	if row < 0 || row >= len(col) {
		return fmt.Errorf("row %d out of range for column %q (len %d)", row, column, len(col))
	}
	col[row] = value
	return nil
}

// AddColumn appends a new empty column, one cell per existing row.
// Adding an existing column is a no-op.
func (t *Table) AddColumn(name string) {
	if _, ok := t.data[name]; ok {
		return
	}
	t.columns = append(t.columns, name)
	t.data[name] = make([]string, t.Len())
}

// Row returns the values of one row in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = t.Cell(i, c)
	}
	return row
}

// AppendPage appends one page's extraction to the table.
//
// Every declared column must be present in page (an empty slice counts).
// All value slices are truncated to the shortest slice before appending;
// the returned truncated flag and minimum length let callers surface a
// warning. An empty table (no columns) appends nothing.
func (t *Table) AppendPage(page map[string][]string) (rows int, truncated bool) {
	if len(t.columns) == 0 {
		return 0, false
	}

	minLen := -1
	for _, c := range t.columns {
		n := len(page[c])
		if minLen == -1 || n < minLen {
			minLen = n
		}
	}
	if minLen <= 0 {
		// Any field with zero matches drops the whole page contribution.
		for _, c := range t.columns {
			if len(page[c]) > 0 {
				truncated = true
			}
		}
		return 0, truncated
	}

	for _, c := range t.columns {
		vals := page[c]
		if len(vals) > minLen {
			truncated = true
			vals = vals[:minLen]
		}
		t.data[c] = append(t.data[c], vals...)
	}
	return minLen, truncated
}

// DeleteRows removes the rows at the given indices. Indices must be sorted
// ascending and unique.
func (t *Table) DeleteRows(indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	for _, c := range t.columns {
		col := t.data[c]
		kept := col[:0]
		for i, v := range col {
			if !drop[i] {
				kept = append(kept, v)
			}
		}
		t.data[c] = kept
	}
}
