package config

import "errors"

var (
	ErrNilPointer     = errors.New("config: nil pointer")
	ErrParsingConfig  = errors.New("failed to parse environment variables into config")
	ErrLoadingEnvFile = errors.New("failed to load env file")
)
