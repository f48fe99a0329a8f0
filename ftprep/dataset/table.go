package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
)

// Row is a single record keyed by column name.
type Row map[string]string

// Table is an ordered header plus ordered rows. Rows are addressed by index.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable builds a table from a header and records. Every record must have
// one value per column.
func NewTable(columns []string, records [][]string) (*Table, error) {
	t := &Table{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]string, 0, len(records)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = i
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i, len(rec), len(columns))
		}
		t.rows = append(t.rows, slices.Clone(rec))
	}
	return t, nil
}

// Columns returns the header in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Value returns the cell at row i, column.
func (t *Table) Value(i int, column string) (string, error) {
	c, ok := t.index[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if i < 0 || i >= len(t.rows) {
		return "", fmt.Errorf("row %d out of range [0,%d)", i, len(t.rows))
	}
	return t.rows[i][c], nil
}

// Column returns a copy of all values in column.
func (t *Table) Column(column string) ([]string, error) {
	c, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[c]
	}
	return out, nil
}

// SetColumn overwrites column with values, appending the column when absent.
func (t *Table) SetColumn(column string, values []string) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %q: got %d values for %d rows", column, len(values), len(t.rows))
	}
	c, ok := t.index[column]
	if !ok {
		c = len(t.columns)
		t.columns = append(t.columns, column)
		t.index[column] = c
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
	for i, v := range values {
		t.rows[i][c] = v
	}
	return nil
}

// Row returns row i as a map.
func (t *Table) Row(i int) Row {
	r := make(Row, len(t.columns))
	for c, name := range t.columns {
		r[name] = t.rows[i][c]
	}
	return r
}

// Select returns a new table holding only columns, in that order.
func (t *Table) Select(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.index[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		idx[i] = j
	}
	records := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rec := make([]string, len(idx))
		for k, j := range idx {
			rec[k] = r[j]
		}
		records[i] = rec
	}
	return NewTable(columns, records)
}

// WriteCSV writes the header and rows as comma separated values.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// SaveCSV writes the table to path, replacing any existing file.
func (t *Table) SaveCSV(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return t.WriteCSV(f)
}
