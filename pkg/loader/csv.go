package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// ReadCSV reads a CSV document whose first record is the header. Rows with
// fewer fields than the header are padded with nulls; rows with more fields
// are malformed.
func ReadCSV(r io.Reader, hints Hints) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyHeader
	}
	if err != nil {
		return nil, errors.Join(ErrMalformedInput, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", ErrMalformedInput, i+1)
		}
		if slices.Contains(columns[:i], name) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHeader, name)
		}
		columns[i] = name
	}

	t := table.New(columns)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrMalformedInput, err)
		}
		if len(record) > len(columns) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformedInput, line, len(record), len(columns))
		}

		row := make(table.Row, len(columns))
		for i, name := range columns {
			if i < len(record) {
				row[name] = coerceString(record[i], hints[name])
			} else {
				row[name] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
