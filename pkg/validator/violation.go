package validator

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Violation is a single constraint failure with enough context to locate it.
// Row is nil for structural and aggregate violations.
type Violation struct {
	Column  string         `json:"column,omitempty"`
	Row     *int           `json:"row,omitempty"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`

	key orderKey
}

// orderKey fixes the position of a violation in the canonical report order:
// structural, per-column, cross-field, aggregate; then declaration index,
// row index and check index.
type orderKey struct {
	stage int
	index int
	row   int
	check int
}

const (
	stageStructural = iota
	stageColumn
	stageCrossField
	stageAggregate
)

func (k orderKey) compare(o orderKey) int {
	return cmp.Or(
		cmp.Compare(k.stage, o.stage),
		cmp.Compare(k.index, o.index),
		cmp.Compare(k.row, o.row),
		cmp.Compare(k.check, o.check),
	)
}

func (v Violation) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(v.Kind))
	b.WriteString("]")
	if v.Column != "" {
		b.WriteString(" ")
		b.WriteString(v.Column)
	}
	if v.Row != nil {
		fmt.Fprintf(&b, " row %d", *v.Row)
	}
	b.WriteString(": ")
	b.WriteString(v.Message)
	return b.String()
}

// Violations is an ordered collection of violations. It implements error so
// a failed outcome can be returned through error-typed APIs.
type Violations []Violation

func (vs Violations) Error() string {
	if len(vs) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (vs *Violations) Add(v Violation) {
	*vs = append(*vs, v)
}

// Has reports whether any violation concerns the column.
func (vs Violations) Has(column string) bool {
	return slices.ContainsFunc(vs, func(v Violation) bool { return v.Column == column })
}

// Get returns the messages reported for the column.
func (vs Violations) Get(column string) []string {
	var messages []string
	for _, v := range vs {
		if v.Column == column {
			messages = append(messages, v.Message)
		}
	}
	return messages
}

// ForColumn returns the violations reported for the column.
func (vs Violations) ForColumn(column string) Violations {
	var out Violations
	for _, v := range vs {
		if v.Column == column {
			out = append(out, v)
		}
	}
	return out
}

// ByKind returns the violations of the given kind.
func (vs Violations) ByKind(kind Kind) Violations {
	var out Violations
	for _, v := range vs {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// HasKind reports whether any violation is of the given kind.
func (vs Violations) HasKind(kind Kind) bool {
	return slices.ContainsFunc(vs, func(v Violation) bool { return v.Kind == kind })
}

// Columns returns the distinct columns with violations in first-seen order.
func (vs Violations) Columns() []string {
	var columns []string
	seen := make(map[string]bool)
	for _, v := range vs {
		if v.Column != "" && !seen[v.Column] {
			columns = append(columns, v.Column)
			seen[v.Column] = true
		}
	}
	return columns
}

// Rows returns the distinct row indices with violations in ascending order.
func (vs Violations) Rows() []int {
	var rows []int
	for _, v := range vs {
		if v.Row != nil {
			rows = append(rows, *v.Row)
		}
	}
	slices.Sort(rows)
	return slices.Compact(rows)
}

func (vs Violations) IsEmpty() bool {
	return len(vs) == 0
}

// Sort restores the canonical report order in place. The sort is stable, so
// violations built outside the engine keep their relative order.
func (vs Violations) Sort() {
	slices.SortStableFunc(vs, func(a, b Violation) int { return a.key.compare(b.key) })
}

// Merge concatenates violation lists produced for disjoint row shards of the
// same table and schema, and restores the canonical order.
func Merge(lists ...Violations) Violations {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make(Violations, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	out.Sort()
	return out
}

// ExtractViolations extracts Violations from an error chain.
func ExtractViolations(err error) Violations {
	if err == nil {
		return nil
	}

	var vs Violations
	if errors.As(err, &vs) {
		return vs
	}

	return nil
}

func IsViolations(err error) bool {
	if err == nil {
		return false
	}

	var vs Violations
	return errors.As(err, &vs)
}

func rowRef(i int) *int {
	return &i
}
