// Package httpapi exposes schema validation over HTTP.
//
// Routes:
//
//	GET  /healthz   liveness probe
//	GET  /readyz    readiness probe running the configured checks
//	GET  /schema    description of the active schema
//	POST /validate  validate a table; JSON {"rows":[...]} or text/csv
//	GET  /metrics   Prometheus metrics, when enabled
//
// Every JSON body uses the envelope {"data": ..., "meta": ..., "error": ...}.
// /validate answers 200 when the table is valid and 422 when it is not; the
// outcome is in data either way. Unreadable bodies get 400.
//
//	api, err := httpapi.New(employee.Schema(), httpapi.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return httpserver.New().Run(ctx, api.Router())
package httpapi
