package httpapi

import "errors"

var (
	ErrNilSchema          = errors.New("schema is nil")
	ErrMalformedBody      = errors.New("malformed request body")
	ErrMissingRows        = errors.New(`request body has no "rows"`)
	ErrUnsupportedContent = errors.New("unsupported content type")
	ErrBodyTooLarge       = errors.New("request body too large")
)
