package report

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// LogOutcome writes the outcome as structured records. A success is one
// info record; a failure is one error record with a count per kind followed
// by a warning per violation.
func LogOutcome(ctx context.Context, log *slog.Logger, out validator.Outcome) {
	if log == nil {
		return
	}

	if out.Success {
		attrs := []slog.Attr{logger.Rows(out.Table.Len())}
		if sum := out.Summary; sum != nil && sum.Category != "" {
			counts := make([]slog.Attr, 0, len(sum.Counts))
			for _, k := range slices.Sorted(maps.Keys(sum.Counts)) {
				counts = append(counts, slog.Int(k, sum.Counts[k]))
			}
			attrs = append(attrs, logger.Group(sum.Category, counts...))
		}
		log.LogAttrs(ctx, slog.LevelInfo, "validation succeeded", attrs...)
		return
	}

	byKind := make(map[validator.Kind]int)
	for _, v := range out.Violations {
		byKind[v.Kind]++
	}
	kinds := make([]slog.Attr, 0, len(byKind))
	for _, k := range slices.Sorted(maps.Keys(byKind)) {
		kinds = append(kinds, slog.Int(string(k), byKind[k]))
	}

	log.LogAttrs(ctx, slog.LevelError, "validation failed",
		logger.Violations(len(out.Violations)),
		logger.Group("kinds", kinds...),
	)

	for _, v := range out.Violations {
		row := -1
		if v.Row != nil {
			row = *v.Row
		}
		log.LogAttrs(ctx, slog.LevelWarn, v.Message,
			logger.Kind(string(v.Kind)),
			logger.Column(v.Column),
			logger.Row(row),
		)
	}
}
