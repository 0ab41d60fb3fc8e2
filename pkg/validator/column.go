package validator

import (
	"fmt"
	"slices"
)

// Column is the constraint declared for a single column: its type,
// nullability, uniqueness and ordered value checks.
type Column struct {
	Name        string
	Type        Type
	Nullable    bool
	Unique      bool
	Description string
	Predicates  []Predicate

	uniqueTemplate string
}

// ColumnOption configures a column. Predicates are column options too, so
// checks and flags can be mixed in declaration order.
type ColumnOption interface {
	applyColumn(*Column)
}

type columnOptionFunc func(*Column)

func (f columnOptionFunc) applyColumn(c *Column) { f(c) }

// Nullable allows null cells in the column.
func Nullable() ColumnOption {
	return columnOptionFunc(func(c *Column) { c.Nullable = true })
}

// Unique requires non-null values of the column to be distinct across rows.
// An optional message template replaces the default; it may reference
// %{column}, %{value}, %{row} and %{rows}.
func Unique(message ...string) ColumnOption {
	return columnOptionFunc(func(c *Column) {
		c.Unique = true
		if len(message) > 0 {
			c.uniqueTemplate = message[0]
		}
	})
}

// Describe attaches a human-readable description to the column.
func Describe(description string) ColumnOption {
	return columnOptionFunc(func(c *Column) { c.Description = description })
}

// NewColumn declares a column of the given type.
func NewColumn(name string, t Type, opts ...ColumnOption) Column {
	c := Column{Name: name, Type: t}
	for _, opt := range opts {
		if opt != nil {
			opt.applyColumn(&c)
		}
	}
	return c
}

// Int declares an integer column.
func Int(name string, opts ...ColumnOption) Column {
	return NewColumn(name, TypeInt, opts...)
}

// Float declares a floating-point column.
func Float(name string, opts ...ColumnOption) Column {
	return NewColumn(name, TypeFloat, opts...)
}

// String declares a string column.
func String(name string, opts ...ColumnOption) Column {
	return NewColumn(name, TypeString, opts...)
}

// Bool declares a boolean column.
func Bool(name string, opts ...ColumnOption) Column {
	return NewColumn(name, TypeBool, opts...)
}

// Time declares a date/time column holding time.Time values.
func Time(name string, opts ...ColumnOption) Column {
	return NewColumn(name, TypeTime, opts...)
}

// References returns the sibling columns read by the column's cross-field
// checks, in declaration order without duplicates.
func (c Column) References() []string {
	var refs []string
	for _, p := range c.Predicates {
		for _, r := range p.columns {
			if !slices.Contains(refs, r) {
				refs = append(refs, r)
			}
		}
	}
	return refs
}

// HasCrossField reports whether the column declares any cross-field check.
func (c Column) HasCrossField() bool {
	return slices.ContainsFunc(c.Predicates, Predicate.isCrossField)
}

func (c Column) validate() error {
	if c.Name == "" {
		return ErrEmptyColumnName
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q on column %q", ErrUnknownType, c.Type, c.Name)
	}
	for _, p := range c.Predicates {
		if err := p.compatible(c.Type); err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
	}
	return nil
}

func (c Column) clone() Column {
	c.Predicates = slices.Clone(c.Predicates)
	return c
}
