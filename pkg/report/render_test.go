package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/report"
)

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, report.Render(&buf, succeeded(t)))

		got := buf.String()
		assert.True(t, strings.HasPrefix(got, "Validation succeeded\n"))
		assert.Contains(t, got, "Records:  3\n")
		assert.Contains(t, got, "By team:\n  A  2\n  B  1\n")
		assert.Contains(t, got, "Means:\n  pay  20\n")
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		out := failed(t)
		var buf bytes.Buffer
		require.NoError(t, report.Render(&buf, out))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Validation failed: 2 violations", lines[0])
		assert.Equal(t, "   1. "+out.Violations[0].String(), lines[1])
		assert.Equal(t, "   2. "+out.Violations[1].String(), lines[2])
		assert.Contains(t, lines[1], "給与 pay < 10: 5")
	})

	t.Run("write error", func(t *testing.T) {
		t.Parallel()
		err := report.Render(failingWriter{}, failed(t))
		assert.ErrorIs(t, err, report.ErrFailedToRender)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
