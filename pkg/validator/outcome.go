package validator

import (
	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// Outcome is the result of a validation. On success Table and Summary are
// set and Violations is empty; on failure only Violations is set.
type Outcome struct {
	Success    bool         `json:"success"`
	Table      *table.Table `json:"table,omitempty"`
	Violations Violations   `json:"violations"`
	Summary    *Summary     `json:"summary,omitempty"`
}

// Err returns nil for a successful outcome and the violations otherwise.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return o.Violations
}

// Faulted reports whether validation was aborted by an unexpected fault
// rather than by constraint violations.
func (o Outcome) Faulted() bool {
	return o.Violations.HasKind(KindUnexpectedFault)
}
