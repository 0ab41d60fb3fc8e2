package report_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/table"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

func staffSchema(t *testing.T) *validator.Schema {
	t.Helper()
	s, err := validator.NewSchema("staff",
		validator.WithColumns(
			validator.Int("id", validator.Unique()),
			validator.String("team"),
			validator.Float("pay", validator.Min(10).WithMessage("給与 %{column} < %{min}: %{value}")),
		),
		validator.WithSummary("team", "pay"),
	)
	require.NoError(t, err)
	return s
}

func validStaff() *table.Table {
	return table.New([]string{"id", "team", "pay"},
		table.Row{"id": int64(1), "team": "A", "pay": 10.0},
		table.Row{"id": int64(2), "team": "B", "pay": 20.0},
		table.Row{"id": int64(3), "team": "A", "pay": 30.0},
	)
}

func invalidStaff() *table.Table {
	return table.New([]string{"id", "team", "pay"},
		table.Row{"id": int64(1), "team": "A", "pay": 5.0},
		table.Row{"id": int64(2), "team": "B", "pay": 20.0},
		table.Row{"id": int64(3), "team": "A", "pay": 7.5},
	)
}

func succeeded(t *testing.T) validator.Outcome {
	t.Helper()
	out := validator.Validate(validStaff(), staffSchema(t))
	require.True(t, out.Success)
	return out
}

func failed(t *testing.T) validator.Outcome {
	t.Helper()
	out := validator.Validate(invalidStaff(), staffSchema(t))
	require.False(t, out.Success)
	require.Len(t, out.Violations, 2)
	return out
}
