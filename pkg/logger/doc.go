// Package logger builds slog loggers and provides the attribute helpers used
// across tablecheck.
//
// New creates a *slog.Logger from functional options: output format (json or
// text), level, static attributes and context extractors. Extractors run on
// every record and add attributes taken from the call's context, such as the
// validation run id stored by WithRunID.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "tablecheck"),
//		logger.WithContextExtractors(logger.RunIDExtractor),
//	)
//	ctx = logger.WithRunID(ctx, runID)
//	log.InfoContext(ctx, "validation finished",
//		logger.Schema("employees"),
//		logger.Rows(5),
//		logger.Violations(0),
//	)
//
// Helpers that take optional values (Error, RunID, Column, Row, RequestID)
// return an empty slog.Attr when the value is absent; slog omits empty
// attributes, so callers need no nil checks.
package logger
