package validator

import (
	"errors"
	"fmt"
	"slices"
)

// Schema is an immutable, ordered set of column constraints plus table-level
// aggregate checks. A Schema is safe for concurrent use by any number of
// validations.
type Schema struct {
	name        string
	description string
	columns     []Column
	index       map[string]int
	aggregates  []Aggregate
	summary     summarySpec
}

type summarySpec struct {
	category string
	means    []string
}

// Option configures a schema under construction.
type Option func(*Schema)

// WithDescription sets the schema description.
func WithDescription(description string) Option {
	return func(s *Schema) { s.description = description }
}

// WithColumns appends column constraints in declaration order.
func WithColumns(columns ...Column) Option {
	return func(s *Schema) {
		for _, c := range columns {
			s.columns = append(s.columns, c.clone())
		}
	}
}

// WithAggregates appends table-level checks in declaration order.
func WithAggregates(aggregates ...Aggregate) Option {
	return func(s *Schema) { s.aggregates = append(s.aggregates, aggregates...) }
}

// WithSummary designates the categorical column counted per distinct value
// and the numeric columns averaged in the success summary.
func WithSummary(category string, means ...string) Option {
	return func(s *Schema) {
		s.summary = summarySpec{category: category, means: slices.Clone(means)}
	}
}

// NewSchema builds and checks a schema. Column names must be unique and every
// column referenced by a cross-field check, aggregate or summary must be
// declared with a compatible type.
func NewSchema(name string, opts ...Option) (*Schema, error) {
	s := &Schema{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.index = make(map[string]int, len(s.columns))
	var errs []error
	for i, c := range s.columns {
		if err := c.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := s.index[c.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name))
			continue
		}
		s.index[c.Name] = i
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, c := range s.columns {
		for _, ref := range c.References() {
			if _, ok := s.index[ref]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q referenced by column %q", ErrUnknownColumn, ref, c.Name))
			}
		}
	}
	for _, a := range s.aggregates {
		all, numeric := a.columns()
		for _, name := range all {
			if _, ok := s.index[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: %q referenced by aggregate %q", ErrUnknownColumn, name, a.name))
			}
		}
		for _, name := range numeric {
			if c, ok := s.Column(name); ok && !c.Type.Numeric() {
				errs = append(errs, fmt.Errorf("%w: aggregate %q needs numeric column %q", ErrIncompatibleCheck, a.name, name))
			}
		}
	}
	if cat := s.summary.category; cat != "" {
		if _, ok := s.index[cat]; !ok {
			errs = append(errs, fmt.Errorf("%w: summary category %q", ErrUnknownColumn, cat))
		}
	}
	for _, name := range s.summary.means {
		c, ok := s.Column(name)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("%w: summary mean %q", ErrUnknownColumn, name))
		case !c.Type.Numeric():
			errs = append(errs, fmt.Errorf("%w: summary mean needs numeric column %q", ErrIncompatibleCheck, name))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return s, nil
}

// MustSchema works like NewSchema but panics on an invalid declaration. It is
// meant for schemas defined in code at package initialization.
func MustSchema(name string, opts ...Option) *Schema {
	s, err := NewSchema(name, opts...)
	if err != nil {
		panic(fmt.Sprintf("validator: invalid schema %q: %v", name, err))
	}
	return s
}

func (s *Schema) Name() string        { return s.name }
func (s *Schema) Description() string { return s.description }

// Columns returns a copy of the declared columns in declaration order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.clone()
	}
	return out
}

// ColumnNames returns the declared column names in declaration order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a declared column by name.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i].clone(), true
}

// Types maps each declared column to its type. Loaders use it as coercion
// hints.
func (s *Schema) Types() map[string]Type {
	types := make(map[string]Type, len(s.columns))
	for _, c := range s.columns {
		types[c.Name] = c.Type
	}
	return types
}

// Aggregates returns the names of the table-level checks in declaration order.
func (s *Schema) Aggregates() []string {
	names := make([]string, len(s.aggregates))
	for i, a := range s.aggregates {
		names[i] = a.name
	}
	return names
}

// AggregateChecks returns the table-level checks in declaration order.
func (s *Schema) AggregateChecks() []Aggregate {
	return slices.Clone(s.aggregates)
}

// SummaryColumns returns the designated category column and mean columns.
func (s *Schema) SummaryColumns() (category string, means []string) {
	return s.summary.category, slices.Clone(s.summary.means)
}
