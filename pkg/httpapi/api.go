package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tablecheck/pkg/httpserver"
	"github.com/dmitrymomot/tablecheck/pkg/loader"
	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/report"
	"github.com/dmitrymomot/tablecheck/pkg/schemafile"
	"github.com/dmitrymomot/tablecheck/pkg/table"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

const defaultMaxBodyBytes = 32 << 20

// API serves validation against a single schema.
type API struct {
	schema    *validator.Schema
	hints     loader.Hints
	log       *slog.Logger
	metrics   *Metrics
	publisher *report.Publisher
	checks    []httpserver.Check
	maxBody   int64
	shards    int
}

// Option configures New.
type Option func(*API)

func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics enables instrumentation and mounts GET /metrics.
func WithMetrics(m *Metrics) Option {
	return func(a *API) { a.metrics = m }
}

// WithPublisher stores the artifacts of every run.
func WithPublisher(p *report.Publisher) Option {
	return func(a *API) { a.publisher = p }
}

// WithReadinessCheck adds a dependency probed by GET /readyz.
func WithReadinessCheck(c httpserver.Check) Option {
	return func(a *API) { a.checks = append(a.checks, c) }
}

// WithMaxBodyBytes caps request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// WithShards validates row checks over n concurrent shards.
func WithShards(n int) Option {
	return func(a *API) { a.shards = n }
}

// New creates an API for schema.
func New(schema *validator.Schema, opts ...Option) (*API, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	a := &API{
		schema:  schema,
		hints:   loader.Hints(schema.Types()),
		log:     logger.Discard(),
		maxBody: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("httpapi"), logger.Schema(schema.Name()))
	return a, nil
}

// Router returns the HTTP handler with all routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(a.log, a.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthHandler(a.log))
	r.Get("/readyz", httpserver.HealthHandler(a.log, a.readinessChecks()...))
	r.Get("/schema", a.describeSchema)
	r.Post("/validate", a.validate)
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

func (a *API) readinessChecks() []httpserver.Check {
	checks := []httpserver.Check{{
		Name: "schema",
		Fn: func(context.Context) error {
			if len(a.schema.Columns()) == 0 {
				return errors.New("schema declares no columns")
			}
			return nil
		},
	}}
	return append(checks, a.checks...)
}

func (a *API) describeSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Response{Data: schemafile.Describe(a.schema)})
}

// validateRequest is the JSON body of POST /validate.
type validateRequest struct {
	Rows json.RawMessage `json:"rows"`
}

func (a *API) validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := a.readTable(w, r)
	if err != nil {
		status, code := http.StatusBadRequest, "malformed_body"
		switch {
		case errors.Is(err, ErrBodyTooLarge):
			status, code = http.StatusRequestEntityTooLarge, "body_too_large"
		case errors.Is(err, ErrUnsupportedContent):
			status, code = http.StatusUnsupportedMediaType, "unsupported_content_type"
		}
		a.log.WarnContext(ctx, "rejected validation request", logger.Error(err))
		writeError(w, status, code, err)
		return
	}

	runID := uuid.New()
	ctx = logger.WithRunID(ctx, runID.String())

	start := time.Now()
	out, err := validator.ValidateParallel(ctx, t, a.schema, a.shards)
	elapsed := time.Since(start)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "canceled", err)
		return
	}
	if a.metrics != nil {
		a.metrics.ObserveOutcome(out, t.Len(), elapsed)
	}
	report.LogOutcome(ctx, a.log, out)

	meta := map[string]any{
		"run_id":      runID.String(),
		"rows":        t.Len(),
		"duration_ms": elapsed.Milliseconds(),
	}
	if a.publisher != nil && publishRequested(r) {
		objects, err := a.publisher.Publish(ctx, runID, out)
		if err != nil {
			a.log.ErrorContext(ctx, "failed to publish run artifacts", logger.Error(err))
			writeError(w, http.StatusBadGateway, "publish_failed", err)
			return
		}
		meta["artifacts"] = objects
	}

	resp := Response{Data: out, Meta: meta}
	if out.Success {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	code := "validation_failed"
	if out.Faulted() {
		code = string(validator.KindUnexpectedFault)
	}
	resp.Error = &ErrorDetail{
		Code:    code,
		Message: fmt.Sprintf("%d violation(s) found", len(out.Violations)),
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

// readTable decodes the request body as JSON rows or CSV, depending on its
// content type.
func (a *API) readTable(w http.ResponseWriter, r *http.Request) (*table.Table, error) {
	body := http.MaxBytesReader(w, r.Body, a.maxBody)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, errors.Join(ErrMalformedBody, err)
	}

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err = mime.ParseMediaType(ct)
		if err != nil {
			return nil, errors.Join(ErrUnsupportedContent, err)
		}
	}

	switch mediaType {
	case "application/json":
		var req validateRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, errors.Join(ErrMalformedBody, err)
		}
		if len(req.Rows) == 0 || string(req.Rows) == "null" {
			return nil, ErrMissingRows
		}
		t, err := loader.ReadJSON(bytes.NewReader(req.Rows), a.hints)
		if err != nil {
			return nil, errors.Join(ErrMalformedBody, err)
		}
		return t, nil
	case "text/csv":
		t, err := loader.ReadCSV(bytes.NewReader(data), a.hints)
		if err != nil {
			return nil, errors.Join(ErrMalformedBody, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
}

func publishRequested(r *http.Request) bool {
	v := r.URL.Query().Get("publish")
	if v == "" {
		return true
	}
	ok, _ := strconv.ParseBool(v)
	return ok
}
