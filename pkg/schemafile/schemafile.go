package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tablecheck/pkg/table"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Load reads a YAML descriptor from path and builds the schema.
func Load(path string) (*validator.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return Parse(data)
}

// Parse decodes a YAML descriptor and builds the schema. Unknown keys are
// rejected.
func Parse(data []byte) (*validator.Schema, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDescriptor)
		}
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return d.Schema()
}

// Schema builds a validator schema from the descriptor. Descriptor problems
// are reported together, wrapped in ErrInvalidDescriptor.
func (d Descriptor) Schema() (*validator.Schema, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("%w: schema name is required", ErrInvalidDescriptor)
	}

	var errs []error
	columns := make([]validator.Column, 0, len(d.Columns))
	for _, cs := range d.Columns {
		c, err := cs.column()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		columns = append(columns, c)
	}

	aggregates := make([]validator.Aggregate, 0, len(d.Aggregates))
	for i, as := range d.Aggregates {
		a, err := as.aggregate()
		if err != nil {
			errs = append(errs, fmt.Errorf("aggregate %d: %w", i, err))
			continue
		}
		aggregates = append(aggregates, a)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, errors.Join(errs...))
	}

	opts := []validator.Option{
		validator.WithDescription(d.Description),
		validator.WithColumns(columns...),
		validator.WithAggregates(aggregates...),
	}
	if d.Summary != nil {
		opts = append(opts, validator.WithSummary(d.Summary.Category, d.Summary.Means...))
	}

	s, err := validator.NewSchema(d.Name, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return s, nil
}

func (cs ColumnSpec) column() (validator.Column, error) {
	t := validator.Type(cs.Type)
	if !t.Valid() {
		return validator.Column{}, fmt.Errorf("column %q: unknown type %q", cs.Name, cs.Type)
	}

	opts := make([]validator.ColumnOption, 0, len(cs.Checks)+3)
	if cs.Nullable {
		opts = append(opts, validator.Nullable())
	}
	if cs.Unique {
		opts = append(opts, validator.Unique(cs.UniqueMessage))
	}
	if cs.Description != "" {
		opts = append(opts, validator.Describe(cs.Description))
	}
	for i, check := range cs.Checks {
		p, err := check.predicate(t)
		if err != nil {
			return validator.Column{}, fmt.Errorf("column %q check %d: %w", cs.Name, i, err)
		}
		opts = append(opts, p)
	}

	return validator.NewColumn(cs.Name, t, opts...), nil
}

func (c CheckSpec) predicate(t validator.Type) (validator.Predicate, error) {
	var (
		p   validator.Predicate
		err error
	)
	switch c.Kind {
	case "min":
		var k float64
		if k, err = number("value", c.Value); err == nil {
			p = validator.Min(k)
		}
	case "max":
		var k float64
		if k, err = number("value", c.Value); err == nil {
			p = validator.Max(k)
		}
	case "between":
		var lo, hi float64
		if lo, hi, err = bounds(c.Min, c.Max); err == nil {
			p = validator.Between(lo, hi)
		}
	case "length":
		var lo, hi float64
		if lo, hi, err = bounds(c.Min, c.Max); err == nil {
			if lo != math.Trunc(lo) || hi != math.Trunc(hi) {
				return p, fmt.Errorf("length bounds must be whole numbers, got [%v, %v]", lo, hi)
			}
			p = validator.Length(int(lo), int(hi))
		}
	case "one_of":
		if len(c.Values) == 0 {
			return p, errors.New("one_of needs values")
		}
		for _, v := range c.Values {
			switch v.(type) {
			case string, bool, int, int64, uint64, float64:
			default:
				return p, fmt.Errorf("one_of values must be scalars, got %T", v)
			}
		}
		p = validator.OneOf(c.Values...)
	case "not_before":
		var ts time.Time
		if ts, err = timestamp(c.Value); err == nil {
			p = validator.NotBefore(ts)
		}
	case "not_after":
		var ts time.Time
		if ts, err = timestamp(c.Value); err == nil {
			p = validator.NotAfter(ts)
		}
	case "not_equal_column":
		if c.Column == "" {
			return p, errors.New("not_equal_column needs column")
		}
		p = validator.NotEqualColumn(c.Column)
	case "":
		return p, errors.New("check kind is required")
	default:
		return p, fmt.Errorf("unknown check kind %q", c.Kind)
	}
	if err != nil {
		return p, fmt.Errorf("%s: %w", c.Kind, err)
	}
	return p.WithMessage(c.Message), nil
}

func (as AggregateSpec) aggregate() (validator.Aggregate, error) {
	if as.Threshold == nil && as.Kind != "" {
		return validator.Aggregate{}, fmt.Errorf("%s needs threshold", as.Kind)
	}

	var a validator.Aggregate
	switch as.Kind {
	case "group_mean_at_least":
		if as.Group == "" || as.Value == "" {
			return a, errors.New("group_mean_at_least needs group and value")
		}
		a = validator.GroupMeanAtLeast(as.Group, as.Value, *as.Threshold)
	case "referenced_min_at_least":
		if as.Key == "" || as.Ref == "" || as.Value == "" {
			return a, errors.New("referenced_min_at_least needs key, ref and value")
		}
		a = validator.ReferencedMinAtLeast(as.Key, as.Ref, as.Value, *as.Threshold)
	case "":
		return a, errors.New("aggregate kind is required")
	default:
		return a, fmt.Errorf("unknown aggregate kind %q", as.Kind)
	}
	return a.WithMessage(as.Message), nil
}

func number(name string, v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("missing %s", name)
	}
	f, ok := table.Float(v)
	if !ok {
		return 0, fmt.Errorf("%s must be a number, got %T", name, v)
	}
	return f, nil
}

func bounds(lo, hi any) (float64, float64, error) {
	l, err := number("min", lo)
	if err != nil {
		return 0, 0, err
	}
	h, err := number("max", hi)
	if err != nil {
		return 0, 0, err
	}
	return l, h, nil
}

func timestamp(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, errors.New("missing value")
	case time.Time:
		return x, nil
	case string:
		for _, layout := range []string{time.DateOnly, time.RFC3339} {
			if ts, err := time.Parse(layout, x); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("value %q is not a date", x)
	}
	return time.Time{}, fmt.Errorf("value must be a date, got %T", v)
}
