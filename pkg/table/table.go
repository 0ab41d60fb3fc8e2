package table

import (
	"math"
	"slices"
)

// Row maps a column name to its cell value. A nil value, a missing key or a
// float NaN is treated as null.
type Row map[string]any

// Table is an ordered sequence of rows over a set of named columns.
// Columns holds the header order; every row is expected to use those names,
// but rows may omit keys for null cells.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates a table with the given header and rows.
func New(columns []string, rows ...Row) *Table {
	return &Table{
		Columns: slices.Clone(columns),
		Rows:    rows,
	}
}

// FromColumns builds a table from column-oriented data. Columns are added in
// the order of names; shorter columns are padded with nulls.
func FromColumns(names []string, data map[string][]any) *Table {
	n := 0
	for _, name := range names {
		n = max(n, len(data[name]))
	}

	rows := make([]Row, n)
	for i := range rows {
		row := make(Row, len(names))
		for _, name := range names {
			if col := data[name]; i < len(col) {
				row[name] = col[i]
			}
		}
		rows[i] = row
	}

	return New(names, rows...)
}

// Len returns the number of rows. A nil table has zero rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the column is part of the table header.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.Columns, column)
}

// Missing returns the names from required that are absent from the header,
// preserving the order of required.
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, name := range required {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Value returns the cell at row i for column. Null cells return (nil, false).
func (t *Table) Value(i int, column string) (any, bool) {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	v := t.Rows[i][column]
	if IsNull(v) {
		return nil, false
	}
	return v, true
}

// Column returns the values of a column in row order. Nulls are returned as nil.
func (t *Table) Column(name string) []any {
	if t == nil {
		return nil
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if v := row[name]; !IsNull(v) {
			out[i] = v
		}
	}
	return out
}

// Slice returns a table sharing the header and the rows in [from, to).
func (t *Table) Slice(from, to int) *Table {
	if t == nil {
		return nil
	}
	from = max(0, min(from, len(t.Rows)))
	to = max(from, min(to, len(t.Rows)))
	return &Table{Columns: t.Columns, Rows: t.Rows[from:to]}
}

// Clone returns a shallow copy of the table: a new header slice and new row
// maps holding the same cell values.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make(Row, len(row))
		for k, v := range row {
			rows[i][k] = v
		}
	}
	return &Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// IsNull reports whether v is the null marker: nil or a float NaN.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}
