package report

import "errors"

var (
	ErrNilTable          = errors.New("table is nil")
	ErrNilStorage        = errors.New("storage is nil")
	ErrFailedToWriteCSV  = errors.New("failed to write csv")
	ErrFailedToWriteJSON = errors.New("failed to write json")
	ErrFailedToPublish   = errors.New("failed to publish artifact")
	ErrFailedToRender    = errors.New("failed to render outcome")
)
