package loader

import "errors"

var (
	ErrFailedToOpenFile    = errors.New("failed to open input file")
	ErrUnsupportedFormat   = errors.New("unsupported input format")
	ErrMalformedInput      = errors.New("malformed input")
	ErrEmptyHeader         = errors.New("input has no header")
	ErrDuplicateHeader     = errors.New("duplicate column in header")
	ErrUnsupportedType     = errors.New("unsupported arrow column type")
	ErrFailedToReadArrow   = errors.New("failed to read arrow data")
	ErrFailedToReadParquet = errors.New("failed to read parquet file")
)
