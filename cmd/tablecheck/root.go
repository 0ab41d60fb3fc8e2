package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tablecheck/pkg/config"
	"github.com/dmitrymomot/tablecheck/pkg/employee"
	"github.com/dmitrymomot/tablecheck/pkg/httpapi"
	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/schemafile"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// errViolations is returned by validate when the input has violations. The
// report has already been printed, so main only sets the exit code.
var errViolations = errors.New("input has violations")

// app is the state shared by the subcommands, filled in before any of them
// runs.
type app struct {
	cfg    Config
	log    *slog.Logger
	schema *validator.Schema
}

func newRootCmd() *cobra.Command {
	var (
		a          app
		schemaPath string
		envFile    string
	)

	root := &cobra.Command{
		Use:   "tablecheck",
		Short: "Validate tabular data against a declarative schema",
		Long: `tablecheck validates a table of records (CSV, JSON or Parquet) against a
schema of column types, value checks, uniqueness, cross-field rules and
table-level aggregates. It reports either the validated table with a summary
or every violation found, in a stable order.

Without --schema the built-in employee schema is used.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, schemaPath, envFile)
		},
	}

	root.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "schema YAML file (default: built-in employee schema)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")

	root.AddCommand(
		newValidateCmd(&a),
		newServeCmd(&a),
		newSchemaCmd(&a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, schemaPath, envFile string) error {
	if envFile != "" {
		if err := config.LoadEnv(envFile); err != nil {
			return err
		}
	}
	if err := config.Load(&a.cfg); err != nil {
		return err
	}

	opts := []logger.Option{
		logger.WithEnvironment(a.cfg.AppEnv, "tablecheck"),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(logger.RunIDExtractor, httpapi.RequestIDExtractor),
	}
	if a.cfg.LogLevel != "" {
		level, err := logger.ParseLevel(a.cfg.LogLevel)
		if err != nil {
			return err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	switch f := logger.Format(a.cfg.LogFormat); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(f))
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", a.cfg.LogFormat)
	}
	a.log = logger.New(opts...)

	if schemaPath == "" {
		a.schema = employee.Schema()
		return nil
	}
	s, err := schemafile.Load(schemaPath)
	if err != nil {
		return err
	}
	a.schema = s
	a.log.Debug("schema loaded", logger.Schema(s.Name()), logger.Path(schemaPath))
	return nil
}
