package schemafile

import "errors"

var (
	ErrFailedToReadFile  = errors.New("failed to read schema file")
	ErrFailedToParseYAML = errors.New("failed to parse schema YAML")
	ErrInvalidDescriptor = errors.New("invalid schema descriptor")
)
