package main

import (
	"github.com/dmitrymomot/tablecheck/pkg/file"
	"github.com/dmitrymomot/tablecheck/pkg/httpserver"
)

// Storage backends for published artifacts.
const (
	storageNone  = "none"
	storageLocal = "local"
	storageS3    = "s3"
)

// Config is read from the environment by config.Load.
type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	OutDir   string `env:"TABLECHECK_OUT_DIR" envDefault:"."`
	Parallel int    `env:"TABLECHECK_PARALLEL" envDefault:"0"`

	Storage    string `env:"TABLECHECK_STORAGE" envDefault:"none"`
	StorageDir string `env:"TABLECHECK_STORAGE_DIR" envDefault:"./artifacts"`
	StorageURL string `env:"TABLECHECK_STORAGE_URL"`
	RunPrefix  string `env:"TABLECHECK_RUN_PREFIX" envDefault:"runs"`

	MetricsNamespace string `env:"TABLECHECK_METRICS_NAMESPACE" envDefault:"tablecheck"`

	S3   file.S3Config
	HTTP httpserver.Config
}
