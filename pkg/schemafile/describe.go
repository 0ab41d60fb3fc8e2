package schemafile

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Describe converts a schema into its descriptor form. Checks built from
// functions are listed by name only and cannot be parsed back.
func Describe(s *validator.Schema) Descriptor {
	d := Descriptor{
		Name:        s.Name(),
		Description: s.Description(),
	}

	for _, c := range s.Columns() {
		cs := ColumnSpec{
			Name:        c.Name,
			Type:        string(c.Type),
			Nullable:    c.Nullable,
			Unique:      c.Unique,
			Description: c.Description,
		}
		for _, p := range c.Predicates {
			cs.Checks = append(cs.Checks, describeCheck(p))
		}
		d.Columns = append(d.Columns, cs)
	}

	for _, a := range s.AggregateChecks() {
		params := a.Params()
		as := AggregateSpec{Kind: a.Name()}
		as.Group, _ = params["group"].(string)
		as.Key, _ = params["key"].(string)
		as.Ref, _ = params["ref"].(string)
		as.Value, _ = params["value"].(string)
		if th, ok := params["threshold"].(float64); ok {
			as.Threshold = &th
		}
		d.Aggregates = append(d.Aggregates, as)
	}

	if category, means := s.SummaryColumns(); category != "" || len(means) > 0 {
		d.Summary = &SummarySpec{Category: category, Means: means}
	}

	return d
}

func describeCheck(p validator.Predicate) CheckSpec {
	params := p.Params()
	cs := CheckSpec{Kind: p.Name()}
	switch p.Name() {
	case "min":
		cs.Value = params["min"]
	case "max":
		cs.Value = params["max"]
	case "between", "length":
		cs.Min = params["min"]
		cs.Max = params["max"]
	case "not_before":
		cs.Value = dateValue(params["min"])
	case "not_after":
		cs.Value = dateValue(params["max"])
	case "one_of":
		cs.Values, _ = params["allowed"].([]any)
	case "not_equal_column":
		cs.Column, _ = params["other"].(string)
	}
	return cs
}

func dateValue(v any) any {
	t, ok := v.(time.Time)
	if !ok {
		return v
	}
	if t.Equal(t.Truncate(24*time.Hour)) && t.Location() == time.UTC {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// Marshal encodes the descriptor of s as YAML.
func Marshal(s *validator.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Describe(s)); err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", s.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", s.Name(), err)
	}
	return buf.Bytes(), nil
}
