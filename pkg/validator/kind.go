package validator

import (
	"time"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// Kind classifies a violation.
type Kind string

const (
	KindStructural      Kind = "structural"
	KindType            Kind = "type"
	KindNullability     Kind = "nullability"
	KindRange           Kind = "range"
	KindMembership      Kind = "membership"
	KindLength          Kind = "length"
	KindUniqueness      Kind = "uniqueness"
	KindCrossField      Kind = "cross_field"
	KindAggregate       Kind = "aggregate"
	KindUnexpectedFault Kind = "unexpected_fault"
)

// Type is the declared runtime type of a column.
type Type string

const (
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeString Type = "string"
	TypeBool   Type = "bool"
	TypeTime   Type = "time"
)

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	switch t {
	case TypeInt, TypeFloat, TypeString, TypeBool, TypeTime:
		return true
	}
	return false
}

// Numeric reports whether values of t can be compared numerically.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Accepts reports whether a non-null value is compatible with t.
// Int accepts integral floats because JSON decoders produce float64.
func (t Type) Accepts(v any) bool {
	switch t {
	case TypeInt:
		return table.IsInteger(v)
	case TypeFloat:
		_, ok := table.Float(v)
		return ok
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBool:
		_, ok := v.(bool)
		return ok
	case TypeTime:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}
