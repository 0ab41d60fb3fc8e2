package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tablecheck/pkg/file"
	"github.com/dmitrymomot/tablecheck/pkg/httpapi"
	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/report"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

func staffSchema(t *testing.T) *validator.Schema {
	t.Helper()
	s, err := validator.NewSchema("staff",
		validator.WithColumns(
			validator.Int("id", validator.Unique()),
			validator.String("team"),
			validator.Float("pay", validator.Min(10)),
		),
		validator.WithSummary("team", "pay"),
	)
	require.NoError(t, err)
	return s
}

const (
	validRows   = `{"rows":[{"id":1,"team":"A","pay":10},{"id":2,"team":"B","pay":20.5}]}`
	invalidRows = `{"rows":[{"id":1,"team":"A","pay":5},{"id":1,"team":"B","pay":20}]}`
)

type envelope struct {
	Data struct {
		Success    bool `json:"success"`
		Violations []struct {
			Column string `json:"column"`
			Kind   string `json:"kind"`
			Row    *int   `json:"row"`
		} `json:"violations"`
		Summary *struct {
			RecordCount int            `json:"record_count"`
			Counts      map[string]int `json:"counts"`
		} `json:"summary"`
	} `json:"data"`
	Meta  map[string]any `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(t *testing.T, opts ...httpapi.Option) http.Handler {
	t.Helper()
	api, err := httpapi.New(staffSchema(t), opts...)
	require.NoError(t, err)
	return api.Router()
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := httpapi.New(nil)
	assert.ErrorIs(t, err, httpapi.ErrNilSchema)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid json", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, newRouter(t), http.MethodPost, "/validate", "application/json", validRows)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Data.Success)
		assert.Nil(t, env.Error)
		require.NotNil(t, env.Data.Summary)
		assert.Equal(t, 2, env.Data.Summary.RecordCount)
		assert.Equal(t, map[string]int{"A": 1, "B": 1}, env.Data.Summary.Counts)
		assert.EqualValues(t, 2, env.Meta["rows"])
		_, err := uuid.Parse(env.Meta["run_id"].(string))
		assert.NoError(t, err)
	})

	t.Run("violations", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, newRouter(t), http.MethodPost, "/validate", "application/json; charset=utf-8", invalidRows)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, env.Data.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "validation_failed", env.Error.Code)
		require.Len(t, env.Data.Violations, 3)
		assert.Equal(t, "uniqueness", env.Data.Violations[0].Kind)
		assert.Equal(t, "uniqueness", env.Data.Violations[1].Kind)
		assert.Equal(t, "range", env.Data.Violations[2].Kind)
		assert.Equal(t, "pay", env.Data.Violations[2].Column)
	})

	t.Run("csv", func(t *testing.T) {
		t.Parallel()
		body := "id,team,pay\n1,A,10\n2,B,11.5\n"
		rec, env := do(t, newRouter(t), http.MethodPost, "/validate", "text/csv", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Data.Success)
	})

	t.Run("sharded", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, newRouter(t, httpapi.WithShards(4)), http.MethodPost, "/validate", "", invalidRows)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Len(t, env.Data.Violations, 3)
	})

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, newRouter(t), http.MethodPost, "/validate", "", `{"rows":[{"id":1,"team":"A"}]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Len(t, env.Data.Violations, 1)
		assert.Equal(t, "structural", env.Data.Violations[0].Kind)
		assert.Equal(t, "pay", env.Data.Violations[0].Column)
	})
}

func TestValidate_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		opts        []httpapi.Option
		status      int
		code        string
	}{
		{name: "malformed json", body: `{"rows":[`, status: http.StatusBadRequest, code: "malformed_body"},
		{name: "empty body", body: "", status: http.StatusBadRequest, code: "malformed_body"},
		{name: "missing rows", body: `{"records":[]}`, status: http.StatusBadRequest, code: "malformed_body"},
		{name: "null rows", body: `{"rows":null}`, status: http.StatusBadRequest, code: "malformed_body"},
		{name: "rows not objects", body: `{"rows":[1,2]}`, status: http.StatusBadRequest, code: "malformed_body"},
		{name: "bad csv", contentType: "text/csv", body: "id,id\n1,2\n", status: http.StatusBadRequest, code: "malformed_body"},
		{name: "unsupported type", contentType: "text/plain", body: "x", status: http.StatusUnsupportedMediaType, code: "unsupported_content_type"},
		{name: "invalid content type", contentType: "/", body: "x", status: http.StatusUnsupportedMediaType, code: "unsupported_content_type"},
		{
			name:   "too large",
			body:   validRows,
			opts:   []httpapi.Option{httpapi.WithMaxBodyBytes(16)},
			status: http.StatusRequestEntityTooLarge,
			code:   "body_too_large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, newRouter(t, tt.opts...), http.MethodPost, "/validate", tt.contentType, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestSchemaEndpoint(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Name    string `json:"name"`
			Columns []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"columns"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "staff", body.Data.Name)
	require.Len(t, body.Data.Columns, 3)
	assert.Equal(t, "pay", body.Data.Columns[2].Name)
	assert.Equal(t, "float", body.Data.Columns[2].Type)
}

func TestRouting(t *testing.T) {
	t.Parallel()

	h := newRouter(t)

	rec, env := do(t, h, http.MethodGet, "/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Code)

	rec, env = do(t, h, http.MethodGet, "/validate", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "method_not_allowed", env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())

	rec, _ = do(t, h, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"schema":"ok"}}`, rec.Body.String())

	rec, _ = do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics are opt-in")
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := logger.New(
		logger.WithOutput(&logs),
		logger.WithContextExtractors(httpapi.RequestIDExtractor),
	)
	h := newRouter(t, httpapi.WithLogger(log))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpapi.RequestIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Header().Get(httpapi.RequestIDHeader))
	assert.Contains(t, logs.String(), `"request_id":"trace-42"`)
	assert.Contains(t, logs.String(), `"route":"/healthz"`)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpapi.RequestIDHeader, "not valid!")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	_, err := uuid.Parse(rec.Header().Get(httpapi.RequestIDHeader))
	assert.NoError(t, err, "invalid ids are replaced")
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	h := newRouter(t, httpapi.WithMetrics(httpapi.NewMetrics("")))
	do(t, h, http.MethodPost, "/validate", "", validRows)
	do(t, h, http.MethodPost, "/validate", "", invalidRows)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `tablecheck_validations_total{result="success"} 1`)
	assert.Contains(t, out, `tablecheck_validations_total{result="failure"} 1`)
	assert.Contains(t, out, `tablecheck_violations_total{kind="uniqueness"} 2`)
	assert.Contains(t, out, `tablecheck_http_requests_total{code="422",route="/validate"} 1`)
	assert.Contains(t, out, "tablecheck_validation_duration_seconds_count 2")
}

func TestPublish(t *testing.T) {
	t.Parallel()

	store, err := file.NewLocalStorage(t.TempDir(), "https://files.example.com")
	require.NoError(t, err)
	pub, err := report.NewPublisher(store, "staff")
	require.NoError(t, err)
	h := newRouter(t, httpapi.WithPublisher(pub))

	rec, env := do(t, h, http.MethodPost, "/validate", "", invalidRows)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	artifacts, ok := env.Meta["artifacts"].([]any)
	require.True(t, ok)
	require.Len(t, artifacts, 1)
	key := artifacts[0].(map[string]any)["key"].(string)
	assert.Equal(t, "runs/"+env.Meta["run_id"].(string)+"/errors.json", key)
	assert.True(t, store.Exists(t.Context(), key))

	_, env = do(t, h, http.MethodPost, "/validate?publish=false", "", validRows)
	assert.NotContains(t, env.Meta, "artifacts")
}
