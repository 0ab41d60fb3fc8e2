package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// ErrorLog is the persisted record of a failed validation run.
type ErrorLog struct {
	RunID      uuid.UUID            `json:"run_id"`
	Timestamp  time.Time            `json:"timestamp"`
	Schema     string               `json:"schema"`
	Error      string               `json:"error"`
	Count      int                  `json:"violation_count"`
	Faulted    bool                 `json:"faulted,omitempty"`
	Violations validator.Violations `json:"violations"`
}

// NewErrorLog builds an error log with a fresh run id. The violations of a
// successful outcome are empty, so the log then records nothing.
func NewErrorLog(out validator.Outcome, schema string) ErrorLog {
	vs := out.Violations
	if vs == nil {
		vs = validator.Violations{}
	}
	msg := ""
	if !out.Success {
		msg = vs.Error()
	}
	return ErrorLog{
		RunID:      uuid.New(),
		Timestamp:  time.Now().UTC(),
		Schema:     schema,
		Error:      msg,
		Count:      len(vs),
		Faulted:    out.Faulted(),
		Violations: vs,
	}
}

// WriteJSON writes the log as indented JSON. Non-ASCII text is written as
// is rather than escaped.
func (l ErrorLog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteJSON, err)
	}
	return nil
}
