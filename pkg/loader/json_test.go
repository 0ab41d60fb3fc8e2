package loader_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/loader"
)

func TestReadJSON(t *testing.T) {
	t.Parallel()

	input := `[
		{"id": 1001, "name": "Ann", "score": 4, "joined": "2020-01-02", "tags": ["a"]},
		{"name": "Bob", "id": 1002.0, "score": 3.5, "joined": null, "extra": 12345678901234567890},
		{"id": "x", "name": 7, "score": "high", "joined": "soon"}
	]`

	tbl, err := loader.ReadJSON(strings.NewReader(input), hints)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score", "joined", "tags", "extra"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())

	row := tbl.Rows[0]
	assert.Equal(t, int64(1001), row["id"])
	assert.Equal(t, 4.0, row["score"])
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), row["joined"])
	assert.Equal(t, []any{"a"}, row["tags"])

	row = tbl.Rows[1]
	assert.Equal(t, int64(1002), row["id"])
	assert.Equal(t, 3.5, row["score"])
	assert.Nil(t, row["joined"])
	assert.IsType(t, float64(0), row["extra"])
	_, ok := row["tags"]
	assert.False(t, ok)

	row = tbl.Rows[2]
	assert.Equal(t, "x", row["id"])
	assert.Equal(t, int64(7), row["name"])
	assert.Equal(t, "high", row["score"])
	assert.Equal(t, "soon", row["joined"])

	t.Run("int hint outside int64 range stays float", func(t *testing.T) {
		tbl, err := loader.ReadJSON(strings.NewReader(`[{"id": 9223372036854775808}, {"id": 1e3}]`), hints)
		require.NoError(t, err)

		assert.Equal(t, float64(1<<63), tbl.Rows[0]["id"])
		assert.Equal(t, int64(1000), tbl.Rows[1]["id"])
	})
}

func TestReadJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"object instead of array", `{"id": 1}`},
		{"array of scalars", `[1, 2]`},
		{"truncated", `[{"id": 1}`},
		{"invalid value", `[{"id": tru}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.ReadJSON(strings.NewReader(tt.input), nil)
			assert.ErrorIs(t, err, loader.ErrMalformedInput)
		})
	}

	t.Run("empty array", func(t *testing.T) {
		tbl, err := loader.ReadJSON(strings.NewReader(`[]`), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
		assert.Empty(t, tbl.Columns)
	})
}
