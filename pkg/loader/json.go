package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// ReadJSON reads a JSON array of objects. Columns are the object keys in
// first-appearance order; a key missing from an object is null in that row.
// Numbers are decoded exactly and coerced by hint.
func ReadJSON(r io.Reader, hints Hints) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	t := table.New(nil)
	for dec.More() {
		row, err := readObject(dec, hints, &t.Columns)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(t.Rows), err)
		}
		t.Rows = append(t.Rows, row)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return t, nil
}

func readObject(dec *json.Decoder, hints Hints, columns *[]string) (table.Row, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	row := make(table.Row)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Join(ErrMalformedInput, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key, got %v", ErrMalformedInput, tok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, errors.Join(ErrMalformedInput, err)
		}
		if !slices.Contains(*columns, key) {
			*columns = append(*columns, key)
		}
		row[key] = coerceJSON(v, hints[key])
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return row, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Join(ErrMalformedInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformedInput, want, tok)
	}
	return nil
}
