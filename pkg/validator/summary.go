package validator

import (
	"math"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// Summary is a convenience view derived from a successfully validated table.
type Summary struct {
	RecordCount int                `json:"record_count"`
	Category    string             `json:"category,omitempty"`
	Counts      map[string]int     `json:"counts,omitempty"`
	Means       map[string]float64 `json:"means,omitempty"`
}

func (s *Schema) summarize(t *table.Table) *Summary {
	sum := &Summary{RecordCount: t.Len()}

	if cat := s.summary.category; cat != "" {
		sum.Category = cat
		sum.Counts = make(map[string]int)
		for _, row := range t.Rows {
			v := row[cat]
			if table.IsNull(v) {
				continue
			}
			sum.Counts[table.Format(v)]++
		}
	}

	if len(s.summary.means) > 0 {
		sum.Means = make(map[string]float64, len(s.summary.means))
		for _, name := range s.summary.means {
			if mean, ok := columnMean(t, name); ok {
				sum.Means[name] = mean
			}
		}
	}

	return sum
}

// columnMean averages the non-null numeric values of a column.
func columnMean(t *table.Table, name string) (float64, bool) {
	var (
		total float64
		n     int
	)
	for _, row := range t.Rows {
		f, ok := table.Float(row[name])
		if !ok || math.IsNaN(f) {
			continue
		}
		total += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}
