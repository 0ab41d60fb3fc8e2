package validator

import (
	"fmt"
	"math"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// Group is a partition key and the aggregate computed over it.
type Group struct {
	Key   any     `json:"key"`
	Value float64 `json:"value"`
}

func (g Group) String() string {
	return fmt.Sprintf("%s (%s)", table.Format(g.Key), table.Format(g.Value))
}

// AggregateResult is the outcome of a table-level check. Failed lists the
// offending partitions; Params adds template and report parameters.
type AggregateResult struct {
	OK     bool
	Failed []Group
	Params map[string]any
}

type aggOp uint8

const (
	aggGroupMean aggOp = iota + 1
	aggReferencedMin
	aggCustom
)

// Aggregate is a check evaluated over the whole table after all row-level
// checks passed.
type Aggregate struct {
	op       aggOp
	name     string
	template string

	group     string
	value     string
	key       string
	ref       string
	threshold float64

	fn func(*table.Table) (AggregateResult, error)
}

// GroupMeanAtLeast partitions rows by the group column and requires the mean
// of the value column to reach threshold in every partition. Partitions whose
// values are all null have no mean and are not evaluated.
func GroupMeanAtLeast(group, value string, threshold float64) Aggregate {
	return Aggregate{
		op:        aggGroupMean,
		name:      "group_mean_at_least",
		group:     group,
		value:     value,
		threshold: threshold,
		template:  "mean %{value} per %{group} must be at least %{threshold}; failing: %{groups}",
	}
}

// ReferencedMinAtLeast selects rows whose key column value is referenced by
// the ref column of any row, and requires the minimum of the value column over
// that subset to reach threshold. An empty subset satisfies the check.
func ReferencedMinAtLeast(key, ref, value string, threshold float64) Aggregate {
	return Aggregate{
		op:        aggReferencedMin,
		name:      "referenced_min_at_least",
		key:       key,
		ref:       ref,
		value:     value,
		threshold: threshold,
		template:  "minimum %{value} of rows referenced by %{ref} must be at least %{threshold}; got %{min}; below threshold: %{key} %{keys}",
	}
}

// AggregateFunc wraps a custom table-level check. A returned error is
// reported as an unexpected fault.
func AggregateFunc(name string, fn func(*table.Table) (AggregateResult, error)) Aggregate {
	return Aggregate{
		op:       aggCustom,
		name:     name,
		fn:       fn,
		template: "%{check} failed",
	}
}

// WithMessage returns a copy of the aggregate using tmpl as the violation
// message.
func (a Aggregate) WithMessage(tmpl string) Aggregate {
	if tmpl != "" {
		a.template = tmpl
	}
	return a
}

// Name returns the check name.
func (a Aggregate) Name() string { return a.name }

// Params returns the configured parameters of the check.
func (a Aggregate) Params() map[string]any {
	params := a.params(AggregateResult{})
	delete(params, "check")
	return params
}

// columns returns the columns the aggregate reads, with the ones that must be
// numeric flagged.
func (a Aggregate) columns() (all []string, numeric []string) {
	switch a.op {
	case aggGroupMean:
		return []string{a.group, a.value}, []string{a.value}
	case aggReferencedMin:
		return []string{a.key, a.ref, a.value}, []string{a.value}
	}
	return nil, nil
}

func (a Aggregate) evaluate(t *table.Table) (AggregateResult, error) {
	switch a.op {
	case aggGroupMean:
		return groupMean(t, a.group, a.value, a.threshold), nil
	case aggReferencedMin:
		return referencedMin(t, a.key, a.ref, a.value, a.threshold), nil
	case aggCustom:
		if a.fn == nil {
			return AggregateResult{}, fmt.Errorf("aggregate %q has no function", a.name)
		}
		return a.fn(t)
	}
	return AggregateResult{}, fmt.Errorf("aggregate %q: unknown kind", a.name)
}

func (a Aggregate) params(res AggregateResult) map[string]any {
	params := map[string]any{
		"check":     a.name,
		"threshold": a.threshold,
	}
	switch a.op {
	case aggGroupMean:
		params["group"] = a.group
		params["value"] = a.value
	case aggReferencedMin:
		params["key"] = a.key
		params["ref"] = a.ref
		params["value"] = a.value
	}
	if len(res.Failed) > 0 {
		params["groups"] = res.Failed
	}
	for k, v := range res.Params {
		params[k] = v
	}
	return params
}

func groupMean(t *table.Table, group, value string, threshold float64) AggregateResult {
	type acc struct {
		key   any
		sum   float64
		count int
	}
	var order []any
	parts := make(map[any]*acc)

	for _, row := range t.Rows {
		g := row[group]
		if table.IsNull(g) {
			continue
		}
		k := table.Key(g)
		a, ok := parts[k]
		if !ok {
			a = &acc{key: g}
			parts[k] = a
			order = append(order, k)
		}
		if f, ok := table.Float(row[value]); ok && !math.IsNaN(f) {
			a.sum += f
			a.count++
		}
	}

	res := AggregateResult{OK: true}
	for _, k := range order {
		a := parts[k]
		if a.count == 0 {
			continue
		}
		mean := a.sum / float64(a.count)
		if mean < threshold {
			res.OK = false
			res.Failed = append(res.Failed, Group{Key: a.key, Value: mean})
		}
	}
	return res
}

func referencedMin(t *table.Table, key, ref, value string, threshold float64) AggregateResult {
	referenced := make(map[any]bool)
	for _, row := range t.Rows {
		if r := row[ref]; !table.IsNull(r) {
			referenced[table.Key(r)] = true
		}
	}

	var (
		lowest float64
		found  bool
		keys   []any
	)
	for _, row := range t.Rows {
		k := row[key]
		if table.IsNull(k) || !referenced[table.Key(k)] {
			continue
		}
		f, ok := table.Float(row[value])
		if !ok || math.IsNaN(f) {
			continue
		}
		if !found || f < lowest {
			lowest = f
			found = true
		}
		if f < threshold {
			keys = append(keys, k)
		}
	}

	if !found || lowest >= threshold {
		return AggregateResult{OK: true}
	}
	return AggregateResult{
		OK: false,
		Params: map[string]any{
			"min":  lowest,
			"keys": keys,
		},
	}
}
