package loader

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// FromArrow converts an Arrow table. Integer columns become int64 (uint64
// for unsigned), floating-point columns float64, dates and timestamps
// time.Time in UTC.
func FromArrow(at arrow.Table) (*table.Table, error) {
	t := table.New(fieldNames(at.Schema()))

	tr := array.NewTableReader(at, at.NumRows())
	defer tr.Release()

	for tr.Next() {
		if err := appendRecord(t, tr.Record()); err != nil {
			return nil, err
		}
	}
	if err := tr.Err(); err != nil {
		return nil, errors.Join(ErrFailedToReadArrow, err)
	}

	return t, nil
}

// FromRecord converts a single Arrow record batch.
func FromRecord(rec arrow.Record) (*table.Table, error) {
	t := table.New(fieldNames(rec.Schema()))
	if err := appendRecord(t, rec); err != nil {
		return nil, err
	}
	return t, nil
}

func fieldNames(s *arrow.Schema) []string {
	names := make([]string, s.NumFields())
	for i, f := range s.Fields() {
		names[i] = f.Name
	}
	return names
}

func appendRecord(t *table.Table, rec arrow.Record) error {
	n := int(rec.NumRows())
	rows := make([]table.Row, n)
	for i := range rows {
		rows[i] = make(table.Row, rec.NumCols())
	}

	for ci, col := range rec.Columns() {
		name := rec.ColumnName(ci)
		for ri := range n {
			v, err := arrowValue(col, ri)
			if err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
			rows[ri][name] = v
		}
	}

	t.Rows = append(t.Rows, rows...)
	return nil
}

func arrowValue(col arrow.Array, i int) (any, error) {
	if col.IsNull(i) {
		return nil, nil
	}

	switch c := col.(type) {
	case *array.Int8:
		return int64(c.Value(i)), nil
	case *array.Int16:
		return int64(c.Value(i)), nil
	case *array.Int32:
		return int64(c.Value(i)), nil
	case *array.Int64:
		return c.Value(i), nil
	case *array.Uint8:
		return uint64(c.Value(i)), nil
	case *array.Uint16:
		return uint64(c.Value(i)), nil
	case *array.Uint32:
		return uint64(c.Value(i)), nil
	case *array.Uint64:
		return c.Value(i), nil
	case *array.Float16:
		return float64(c.Value(i).Float32()), nil
	case *array.Float32:
		return float64(c.Value(i)), nil
	case *array.Float64:
		return c.Value(i), nil
	case *array.String:
		return c.Value(i), nil
	case *array.LargeString:
		return c.Value(i), nil
	case *array.Boolean:
		return c.Value(i), nil
	case *array.Date32:
		return c.Value(i).ToTime(), nil
	case *array.Date64:
		return c.Value(i).ToTime(), nil
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(i).ToTime(unit), nil
	case *array.Dictionary:
		return arrowValue(c.Dictionary(), c.GetValueIndex(i))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, col.DataType())
}
