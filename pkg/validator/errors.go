package validator

import "errors"

// Schema construction errors.
var (
	// ErrEmptyColumnName is returned when a column is declared without a name.
	ErrEmptyColumnName = errors.New("column name is empty")

	// ErrDuplicateColumn is returned when a column name is declared twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrUnknownColumn is returned when a check or summary references a column
	// the schema does not declare.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownType is returned for a column type outside the supported set.
	ErrUnknownType = errors.New("unknown column type")

	// ErrIncompatibleCheck is returned when a check is attached to a column
	// whose type it cannot evaluate (e.g. Length on an int column).
	ErrIncompatibleCheck = errors.New("check is incompatible with column type")

	// ErrInvalidCheck is returned for checks with inconsistent parameters.
	ErrInvalidCheck = errors.New("invalid check parameters")
)

// ErrUnexpectedFault wraps a panic or error raised while evaluating a check.
var ErrUnexpectedFault = errors.New("unexpected fault during validation")
