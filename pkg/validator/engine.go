package validator

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

const (
	typeTemplate    = "%{column} expects %{type}, got %{actual} %{value}"
	nullTemplate    = "%{column} must not be null"
	missingTemplate = "required column %{column} is missing"
	uniqueTemplate  = "%{column} value %{value} is duplicated in rows %{rows}"
)

// Validate checks the table against the schema and always returns an
// outcome. Checks run in a fixed order:
//
//  1. structural: every declared column must be present; missing columns
//     stop validation.
//  2. per-column: nullability and type, then value checks in declaration
//     order, then uniqueness; every violation of every row is collected.
//  3. cross-field: only for columns whose own and referenced columns passed
//     step 2.
//  4. aggregates: only when steps 2 and 3 found nothing.
//
// A panic raised by a check is recovered and reported as a single
// KindUnexpectedFault violation.
func Validate(t *table.Table, s *Schema) Outcome {
	return guard(func() Outcome {
		if s == nil {
			panic(errors.New("nil schema"))
		}
		if t == nil {
			t = &table.Table{}
		}
		if vs := s.checkStructure(t); len(vs) > 0 {
			return failed(vs)
		}
		vs := s.checkRows(t, 0, t.Len())
		vs = append(vs, s.checkUnique(t)...)
		return s.finish(t, vs)
	})
}

// Validate checks the table against the schema. See the package-level
// Validate.
func (s *Schema) Validate(t *table.Table) Outcome {
	return Validate(t, s)
}

func guard(fn func() Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = faultOutcome(r)
		}
	}()
	return fn()
}

// finish runs the cross-field and aggregate stages on top of the per-column
// violations and assembles the outcome.
func (s *Schema) finish(t *table.Table, vs Violations) Outcome {
	dirty := make(map[string]bool)
	for _, v := range vs {
		dirty[v.Column] = true
	}
	vs = append(vs, s.checkCrossField(t, dirty)...)

	if len(vs) == 0 {
		agg, err := s.checkAggregates(t)
		if err != nil {
			return faultOutcome(err)
		}
		vs = agg
	}

	if len(vs) > 0 {
		vs.Sort()
		return failed(vs)
	}

	return Outcome{
		Success:    true,
		Table:      t,
		Violations: Violations{},
		Summary:    s.summarize(t),
	}
}

func (s *Schema) checkStructure(t *table.Table) Violations {
	var vs Violations
	for i, c := range s.columns {
		if t.Has(c.Name) {
			continue
		}
		vs = append(vs, newViolation(KindStructural, c.Name, -1, missingTemplate,
			map[string]any{"column": c.Name},
			orderKey{stage: stageStructural, index: i}))
	}
	return vs
}

// checkRows runs nullability, type and value checks for rows in [from, to).
// Row indices in the result are absolute, so shards can be merged.
func (s *Schema) checkRows(t *table.Table, from, to int) Violations {
	var vs Violations
	for ci, c := range s.columns {
		for ri := from; ri < to; ri++ {
			row := t.Rows[ri]
			v := row[c.Name]

			if table.IsNull(v) {
				if !c.Nullable {
					vs = append(vs, newViolation(KindNullability, c.Name, ri, nullTemplate,
						map[string]any{"column": c.Name},
						orderKey{stage: stageColumn, index: ci, row: ri, check: -1}))
				}
				continue
			}

			if !c.Type.Accepts(v) {
				vs = append(vs, newViolation(KindType, c.Name, ri, typeTemplate,
					map[string]any{
						"column": c.Name,
						"value":  v,
						"type":   string(c.Type),
						"actual": fmt.Sprintf("%T", v),
					},
					orderKey{stage: stageColumn, index: ci, row: ri, check: -1}))
				continue
			}

			for pi, p := range c.Predicates {
				if p.isCrossField() || p.check(v, row) {
					continue
				}
				vs = append(vs, newViolation(p.kind, c.Name, ri, p.template,
					p.params(c.Name, v, row),
					orderKey{stage: stageColumn, index: ci, row: ri, check: pi}))
			}
		}
	}
	return vs
}

// checkUnique reports every row of every duplicated value, one violation per
// row.
func (s *Schema) checkUnique(t *table.Table) Violations {
	var vs Violations
	for ci, c := range s.columns {
		if !c.Unique {
			continue
		}

		var order []any
		groups := make(map[any][]int)
		for ri, row := range t.Rows {
			v := row[c.Name]
			if table.IsNull(v) {
				continue
			}
			k := table.Key(v)
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], ri)
		}

		tmpl := uniqueTemplate
		if c.uniqueTemplate != "" {
			tmpl = c.uniqueTemplate
		}
		for _, k := range order {
			rows := groups[k]
			if len(rows) < 2 {
				continue
			}
			for _, ri := range rows {
				vs = append(vs, newViolation(KindUniqueness, c.Name, ri, tmpl,
					map[string]any{
						"column": c.Name,
						"value":  t.Rows[ri][c.Name],
						"rows":   rows,
					},
					orderKey{stage: stageColumn, index: ci, row: ri, check: len(c.Predicates)}))
			}
		}
	}
	return vs
}

// checkCrossField evaluates row-context checks for columns that are clean in
// dirty, together with every column they reference.
func (s *Schema) checkCrossField(t *table.Table, dirty map[string]bool) Violations {
	var vs Violations
	for ci, c := range s.columns {
		if !c.HasCrossField() || dirty[c.Name] {
			continue
		}
		for pi, p := range c.Predicates {
			if !p.isCrossField() || anyDirty(dirty, p.columns) {
				continue
			}
			for ri, row := range t.Rows {
				v := row[c.Name]
				if p.check(v, row) {
					continue
				}
				vs = append(vs, newViolation(p.kind, c.Name, ri, p.template,
					p.params(c.Name, v, row),
					orderKey{stage: stageCrossField, index: ci, row: ri, check: pi}))
			}
		}
	}
	return vs
}

func (s *Schema) checkAggregates(t *table.Table) (Violations, error) {
	var vs Violations
	for ai, a := range s.aggregates {
		res, err := a.evaluate(t)
		if err != nil {
			return nil, fmt.Errorf("aggregate %q: %w", a.name, err)
		}
		if res.OK {
			continue
		}
		vs = append(vs, newViolation(KindAggregate, "", -1, a.template,
			a.params(res),
			orderKey{stage: stageAggregate, index: ai}))
	}
	return vs, nil
}

func anyDirty(dirty map[string]bool, columns []string) bool {
	for _, c := range columns {
		if dirty[c] {
			return true
		}
	}
	return false
}

func newViolation(kind Kind, column string, row int, tmpl string, params map[string]any, key orderKey) Violation {
	if row >= 0 {
		params["row"] = row
	}
	msg := render(tmpl, params)
	delete(params, "column")

	v := Violation{
		Column:  column,
		Kind:    kind,
		Message: msg,
		Params:  params,
		key:     key,
	}
	if row >= 0 {
		v.Row = rowRef(row)
	}
	return v
}

func failed(vs Violations) Outcome {
	return Outcome{Success: false, Violations: vs}
}

func faultOutcome(cause any) Outcome {
	var msg string
	switch c := cause.(type) {
	case error:
		msg = c.Error()
	default:
		msg = fmt.Sprint(c)
	}
	return failed(Violations{{
		Kind:    KindUnexpectedFault,
		Message: fmt.Sprintf("%s: %s", ErrUnexpectedFault, msg),
	}})
}
