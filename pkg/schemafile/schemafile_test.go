package schemafile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/employee"
	"github.com/dmitrymomot/tablecheck/pkg/schemafile"
	"github.com/dmitrymomot/tablecheck/pkg/table"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

const staffYAML = `
name: staff
description: staff roster
columns:
  - name: id
    type: int
    unique: true
    unique_message: "id %{value} is used by rows %{rows}"
    checks:
      - {kind: min, value: 1000}
  - name: name
    type: string
    checks:
      - {kind: length, min: 2, max: 20}
  - name: team
    type: string
    checks:
      - {kind: one_of, values: [IT, HR], message: "unknown team %{value}"}
  - name: pay
    type: int
    checks:
      - {kind: between, min: 100, max: 900}
  - name: joined
    type: time
    checks:
      - {kind: not_before, value: 2000-01-01}
      - {kind: not_after, value: "2030-12-31T00:00:00Z"}
  - name: lead
    type: int
    nullable: true
    checks:
      - {kind: not_equal_column, column: id}
aggregates:
  - {kind: group_mean_at_least, group: team, value: pay, threshold: 300}
  - {kind: referenced_min_at_least, key: id, ref: lead, value: pay, threshold: 200}
summary:
  category: team
  means: [pay]
`

func staffTable() *table.Table {
	joined := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	return table.FromColumns(
		[]string{"id", "name", "team", "pay", "joined", "lead"},
		map[string][]any{
			"id":     {1001, 1002, 1003},
			"name":   {"Ann", "Bob", "Cy"},
			"team":   {"IT", "HR", "IT"},
			"pay":    {400, 500, 300},
			"joined": {joined, joined, joined},
			"lead":   {nil, 1001, 1001},
		},
	)
}

func TestParse(t *testing.T) {
	t.Parallel()

	s, err := schemafile.Parse([]byte(staffYAML))
	require.NoError(t, err)

	assert.Equal(t, "staff", s.Name())
	assert.Equal(t, "staff roster", s.Description())
	assert.Equal(t, []string{"id", "name", "team", "pay", "joined", "lead"}, s.ColumnNames())
	assert.Equal(t, []string{"group_mean_at_least", "referenced_min_at_least"}, s.Aggregates())

	out := s.Validate(staffTable())
	require.True(t, out.Success, "violations: %v", out.Violations)
	assert.Equal(t, map[string]int{"IT": 2, "HR": 1}, out.Summary.Counts)

	t.Run("custom messages", func(t *testing.T) {
		tbl := staffTable()
		tbl.Rows[1]["team"] = "Ops"
		tbl.Rows[2]["id"] = 1001

		out := s.Validate(tbl)
		require.False(t, out.Success)
		assert.Contains(t, out.Violations.Get("team"), "unknown team Ops")
		assert.Contains(t, out.Violations.Get("id"), "id 1001 is used by rows 0, 2")
	})

	t.Run("time bounds", func(t *testing.T) {
		tbl := staffTable()
		tbl.Rows[0]["joined"] = time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)
		tbl.Rows[1]["joined"] = time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)

		out := s.Validate(tbl)
		require.Len(t, out.Violations, 2)
		assert.Equal(t, []int{0, 1}, out.Violations.Rows())
		assert.Equal(t, 2, len(out.Violations.ByKind(validator.KindRange)))
	})
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "empty document",
			yaml: "",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "malformed yaml",
			yaml: "name: [",
			err:  schemafile.ErrFailedToParseYAML,
		},
		{
			name: "unknown field",
			yaml: "name: x\ncolums: []\n",
			err:  schemafile.ErrFailedToParseYAML,
		},
		{
			name: "missing name",
			yaml: "columns:\n  - {name: id, type: int}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "unknown type",
			yaml: "name: x\ncolumns:\n  - {name: id, type: decimal}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "unknown check kind",
			yaml: "name: x\ncolumns:\n  - {name: id, type: int, checks: [{kind: positive}]}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "missing check value",
			yaml: "name: x\ncolumns:\n  - {name: id, type: int, checks: [{kind: min}]}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "non-numeric bound",
			yaml: "name: x\ncolumns:\n  - {name: id, type: int, checks: [{kind: between, min: a, max: 2}]}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "fractional length bound",
			yaml: "name: x\ncolumns:\n  - {name: s, type: string, checks: [{kind: length, min: 2.5, max: 4}]}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "bad date",
			yaml: "name: x\ncolumns:\n  - {name: d, type: time, checks: [{kind: not_before, value: yesterday}]}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "check incompatible with type",
			yaml: "name: x\ncolumns:\n  - {name: id, type: int, checks: [{kind: length, min: 1, max: 2}]}\n",
			err:  validator.ErrIncompatibleCheck,
		},
		{
			name: "aggregate without threshold",
			yaml: "name: x\ncolumns:\n  - {name: g, type: string}\n  - {name: v, type: int}\naggregates:\n  - {kind: group_mean_at_least, group: g, value: v}\n",
			err:  schemafile.ErrInvalidDescriptor,
		},
		{
			name: "aggregate over unknown column",
			yaml: "name: x\ncolumns:\n  - {name: g, type: string}\naggregates:\n  - {kind: group_mean_at_least, group: g, value: v, threshold: 1}\n",
			err:  validator.ErrUnknownColumn,
		},
		{
			name: "duplicate column",
			yaml: "name: x\ncolumns:\n  - {name: id, type: int}\n  - {name: id, type: int}\n",
			err:  validator.ErrDuplicateColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schemafile.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, s)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "staff.yaml")
		require.NoError(t, os.WriteFile(path, []byte(staffYAML), 0o600))

		s, err := schemafile.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "staff", s.Name())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := schemafile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, schemafile.ErrFailedToReadFile)
	})
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	d := schemafile.Describe(employee.Schema())
	assert.Equal(t, employee.SchemaName, d.Name)
	require.Len(t, d.Columns, 8)
	assert.Equal(t, "int", d.Columns[0].Type)
	assert.True(t, d.Columns[0].Unique)
	assert.Equal(t, schemafile.CheckSpec{Kind: "min", Value: float64(employee.MinID)}, d.Columns[0].Checks[0])
	assert.Equal(t, "2000-01-01", d.Columns[5].Checks[0].Value)
	assert.Equal(t, employee.ID, d.Columns[6].Checks[0].Column)
	require.Len(t, d.Aggregates, 2)
	assert.Equal(t, employee.Department, d.Aggregates[0].Group)
	require.NotNil(t, d.Summary)
	assert.Equal(t, employee.Department, d.Summary.Category)
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	data, err := schemafile.Marshal(employee.Schema())
	require.NoError(t, err)

	s, err := schemafile.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, employee.Schema().ColumnNames(), s.ColumnNames())
	assert.Equal(t, employee.Schema().Types(), s.Types())
	assert.Equal(t, schemafile.Describe(employee.Schema()), schemafile.Describe(s))
}
