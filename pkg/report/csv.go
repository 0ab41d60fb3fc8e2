package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// WriteCSV writes the table with a header row in column order. Null cells
// are empty; times at midnight UTC are written as dates, other times as
// RFC 3339.
func WriteCSV(w io.Writer, t *table.Table) error {
	if t == nil {
		return ErrNilTable
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteCSV, err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, name := range t.Columns {
			record[i] = cell(row[name])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToWriteCSV, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteCSV, err)
	}
	return nil
}

func cell(v any) string {
	if table.IsNull(v) {
		return ""
	}
	return table.Format(v)
}
