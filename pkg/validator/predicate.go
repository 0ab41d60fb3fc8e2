package validator

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

type op uint8

const (
	opMin op = iota + 1
	opMax
	opBetween
	opNotBefore
	opNotAfter
	opOneOf
	opLength
	opNotEqualColumn
	opCrossField
	opCustom
)

// Predicate is a single value-level check attached to a column. It is a
// tagged variant: op selects which parameters are meaningful and the engine
// evaluates it with a fixed interpreter.
type Predicate struct {
	op       op
	kind     Kind
	name     string
	template string

	lo, hi   float64
	from, to time.Time
	allowed  []any
	minLen   int
	maxLen   int

	other   string
	columns []string
	strict  bool

	value func(v any) bool
	cross func(v any, row table.Row) bool
}

// Min checks that a numeric value is greater than or equal to k.
func Min(k float64) Predicate {
	return Predicate{
		op:       opMin,
		kind:     KindRange,
		name:     "min",
		lo:       k,
		template: "%{column} must be at least %{min}, got %{value}",
	}
}

// Max checks that a numeric value is less than or equal to k.
func Max(k float64) Predicate {
	return Predicate{
		op:       opMax,
		kind:     KindRange,
		name:     "max",
		hi:       k,
		template: "%{column} must be at most %{max}, got %{value}",
	}
}

// Between checks that a numeric value lies in [lo, hi].
func Between(lo, hi float64) Predicate {
	return Predicate{
		op:       opBetween,
		kind:     KindRange,
		name:     "between",
		lo:       lo,
		hi:       hi,
		template: "%{column} must be between %{min} and %{max}, got %{value}",
	}
}

// NotBefore checks that a time value is equal to or after t.
func NotBefore(t time.Time) Predicate {
	return Predicate{
		op:       opNotBefore,
		kind:     KindRange,
		name:     "not_before",
		from:     t,
		template: "%{column} must not be before %{min}, got %{value}",
	}
}

// NotAfter checks that a time value is equal to or before t.
func NotAfter(t time.Time) Predicate {
	return Predicate{
		op:       opNotAfter,
		kind:     KindRange,
		name:     "not_after",
		to:       t,
		template: "%{column} must not be after %{max}, got %{value}",
	}
}

// OneOf checks exact, case-sensitive membership in a fixed set. Numbers match
// by value regardless of their Go type.
func OneOf[T comparable](allowed ...T) Predicate {
	values := make([]any, len(allowed))
	for i, a := range allowed {
		values[i] = a
	}
	return Predicate{
		op:       opOneOf,
		kind:     KindMembership,
		name:     "one_of",
		allowed:  values,
		template: "%{column} must be one of [%{allowed}], got %{value}",
	}
}

// Length checks that a string has between min and max characters inclusive.
// Characters are counted as code points of the NFC-normalized string.
func Length(min, max int) Predicate {
	return Predicate{
		op:       opLength,
		kind:     KindLength,
		name:     "length",
		minLen:   min,
		maxLen:   max,
		template: "%{column} must be between %{min} and %{max} characters long, got %{length}",
	}
}

// NotEqualColumn checks that the value differs from another column of the
// same row. A null on either side satisfies the check.
func NotEqualColumn(other string) Predicate {
	return Predicate{
		op:       opNotEqualColumn,
		kind:     KindCrossField,
		name:     "not_equal_column",
		other:    other,
		columns:  []string{other},
		template: "%{column} must differ from %{other}, both are %{value}",
	}
}

// CrossField builds a row-level check. fn receives the column value and the
// whole row; columns lists the sibling columns fn reads so the engine can skip
// the check when they are malformed. A null value satisfies the check unless
// StrictNulls is applied.
func CrossField(name string, fn func(v any, row table.Row) bool, columns ...string) Predicate {
	return Predicate{
		op:       opCrossField,
		kind:     KindCrossField,
		name:     name,
		columns:  slices.Clone(columns),
		cross:    fn,
		template: "%{column} failed %{check} for value %{value}",
	}
}

// Satisfies builds a custom value check reported with the given kind.
func Satisfies(kind Kind, name string, fn func(v any) bool) Predicate {
	return Predicate{
		op:       opCustom,
		kind:     kind,
		name:     name,
		value:    fn,
		template: "%{column} failed %{check} for value %{value}",
	}
}

// WithMessage returns a copy of the predicate using tmpl as the violation
// message. Templates may reference %{column}, %{value}, %{row} and the
// check's own parameters.
func (p Predicate) WithMessage(tmpl string) Predicate {
	if tmpl != "" {
		p.template = tmpl
	}
	return p
}

// StrictNulls makes a cross-field check evaluate null values instead of
// treating them as satisfied.
func (p Predicate) StrictNulls() Predicate {
	p.strict = true
	return p
}

// Name returns the check name used in messages and params.
func (p Predicate) Name() string { return p.name }

// Kind returns the violation kind reported when the check fails.
func (p Predicate) Kind() Kind { return p.kind }

// References returns the sibling columns a cross-field check reads.
func (p Predicate) References() []string { return slices.Clone(p.columns) }

// Params returns the configured parameters of the check, keyed as they are
// in message templates.
func (p Predicate) Params() map[string]any {
	params := p.params("", nil, nil)
	delete(params, "column")
	delete(params, "value")
	delete(params, "check")
	return params
}

func (p Predicate) isCrossField() bool {
	return p.op == opNotEqualColumn || p.op == opCrossField
}

func (p Predicate) applyColumn(c *Column) {
	c.Predicates = append(c.Predicates, p)
}

// compatible reports whether the predicate can evaluate values of type t.
func (p Predicate) compatible(t Type) error {
	switch p.op {
	case opMin, opMax, opBetween:
		if !t.Numeric() {
			return fmt.Errorf("%w: %s requires a numeric column, got %s", ErrIncompatibleCheck, p.name, t)
		}
		if p.op == opBetween && p.lo > p.hi {
			return fmt.Errorf("%w: between min %v exceeds max %v", ErrInvalidCheck, p.lo, p.hi)
		}
	case opNotBefore, opNotAfter:
		if t != TypeTime {
			return fmt.Errorf("%w: %s requires a time column, got %s", ErrIncompatibleCheck, p.name, t)
		}
	case opLength:
		if t != TypeString {
			return fmt.Errorf("%w: length requires a string column, got %s", ErrIncompatibleCheck, t)
		}
		if p.minLen < 0 || p.minLen > p.maxLen {
			return fmt.Errorf("%w: length bounds [%d, %d]", ErrInvalidCheck, p.minLen, p.maxLen)
		}
	case opOneOf:
		if len(p.allowed) == 0 {
			return fmt.Errorf("%w: one_of needs at least one allowed value", ErrInvalidCheck)
		}
	case opCrossField:
		if p.cross == nil {
			return fmt.Errorf("%w: cross-field check %q has no function", ErrInvalidCheck, p.name)
		}
	case opCustom:
		if p.value == nil {
			return fmt.Errorf("%w: check %q has no function", ErrInvalidCheck, p.name)
		}
	case opNotEqualColumn:
		if p.other == "" {
			return fmt.Errorf("%w: not_equal_column needs a column", ErrInvalidCheck)
		}
	default:
		return fmt.Errorf("%w: unknown check", ErrInvalidCheck)
	}
	return nil
}

// check evaluates the predicate against a non-null, type-compatible value.
// Cross-field variants also receive null values and handle them themselves.
func (p Predicate) check(v any, row table.Row) bool {
	switch p.op {
	case opMin:
		f, _ := table.Float(v)
		return f >= p.lo
	case opMax:
		f, _ := table.Float(v)
		return f <= p.hi
	case opBetween:
		f, _ := table.Float(v)
		return f >= p.lo && f <= p.hi
	case opNotBefore:
		return !v.(time.Time).Before(p.from)
	case opNotAfter:
		return !v.(time.Time).After(p.to)
	case opOneOf:
		k := table.Key(v)
		return slices.ContainsFunc(p.allowed, func(a any) bool { return table.Key(a) == k })
	case opLength:
		n := charCount(v.(string))
		return n >= p.minLen && n <= p.maxLen
	case opNotEqualColumn:
		o := row[p.other]
		if table.IsNull(v) || table.IsNull(o) {
			return true
		}
		return table.Key(v) != table.Key(o)
	case opCrossField:
		if table.IsNull(v) && !p.strict {
			return true
		}
		return p.cross(v, row)
	case opCustom:
		return p.value(v)
	}
	panic(fmt.Sprintf("validator: unhandled check op %d", p.op))
}

// params returns the template and report parameters of a failed check.
func (p Predicate) params(column string, v any, row table.Row) map[string]any {
	params := map[string]any{
		"column": column,
		"value":  v,
		"check":  p.name,
	}
	switch p.op {
	case opMin:
		params["min"] = p.lo
	case opMax:
		params["max"] = p.hi
	case opBetween:
		params["min"] = p.lo
		params["max"] = p.hi
	case opNotBefore:
		params["min"] = p.from
	case opNotAfter:
		params["max"] = p.to
	case opOneOf:
		params["allowed"] = p.allowed
	case opLength:
		params["min"] = p.minLen
		params["max"] = p.maxLen
		if s, ok := v.(string); ok {
			params["length"] = charCount(s)
		}
	case opNotEqualColumn:
		params["other"] = p.other
	case opCrossField:
		if len(p.columns) > 0 {
			params["other"] = p.columns
		}
	}
	return params
}

func charCount(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
