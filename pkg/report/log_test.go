package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/report"
)

func captureLogs(t *testing.T, fn func(*slog.Logger)) []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	fn(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestLogOutcome(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		out := succeeded(t)
		records := captureLogs(t, func(l *slog.Logger) {
			report.LogOutcome(context.Background(), l, out)
		})

		require.Len(t, records, 1)
		assert.Equal(t, "INFO", records[0]["level"])
		assert.Equal(t, "validation succeeded", records[0]["msg"])
		assert.EqualValues(t, 3, records[0]["rows"])
		assert.Equal(t, map[string]any{"A": 2.0, "B": 1.0}, records[0]["team"])
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		out := failed(t)
		records := captureLogs(t, func(l *slog.Logger) {
			report.LogOutcome(context.Background(), l, out)
		})

		require.Len(t, records, 3)
		assert.Equal(t, "ERROR", records[0]["level"])
		assert.Equal(t, "validation failed", records[0]["msg"])
		assert.EqualValues(t, 2, records[0]["violations"])
		assert.Equal(t, map[string]any{"range": 2.0}, records[0]["kinds"])

		for i, rec := range records[1:] {
			assert.Equal(t, "WARN", rec["level"])
			assert.Equal(t, out.Violations[i].Message, rec["msg"])
			assert.Equal(t, "range", rec["kind"])
			assert.Equal(t, "pay", rec["column"])
			assert.EqualValues(t, *out.Violations[i].Row, rec["row"])
		}
	})

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()
		assert.NotPanics(t, func() {
			report.LogOutcome(context.Background(), nil, failed(t))
		})
	})
}
