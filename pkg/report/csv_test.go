package report_test

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/report"
	"github.com/dmitrymomot/tablecheck/pkg/table"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	t.Run("values", func(t *testing.T) {
		t.Parallel()
		tbl := table.New([]string{"id", "name", "joined", "pay", "active"},
			table.Row{
				"id":     int64(1),
				"name":   "Doe, J",
				"joined": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				"pay":    12.5,
				"active": true,
			},
			table.Row{
				"id":     int64(2),
				"joined": time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC),
				"pay":    math.NaN(),
				"active": false,
			},
		)

		var buf bytes.Buffer
		require.NoError(t, report.WriteCSV(&buf, tbl))
		assert.Equal(t,
			"id,name,joined,pay,active\n"+
				"1,\"Doe, J\",2024-01-02,12.5,true\n"+
				"2,,2024-01-02T10:30:00Z,,false\n",
			buf.String())
	})

	t.Run("validated table", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, report.WriteCSV(&buf, succeeded(t).Table))
		assert.Equal(t, "id,team,pay\n1,A,10\n2,B,20\n3,A,30\n", buf.String())
	})

	t.Run("nil table", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, report.WriteCSV(&bytes.Buffer{}, nil), report.ErrNilTable)
	})

	t.Run("write error", func(t *testing.T) {
		t.Parallel()
		err := report.WriteCSV(failingWriter{}, validStaff())
		assert.ErrorIs(t, err, report.ErrFailedToWriteCSV)
	})
}
