package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tablecheck/pkg/file"
	"github.com/dmitrymomot/tablecheck/pkg/loader"
	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/report"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Names of the files written to the output directory.
const (
	validatedPrefix = "validated_"
	errorsFile      = "validation_errors.json"
)

type validateFlags struct {
	input    string
	outDir   string
	parallel int
	publish  bool
	format   string
}

func newValidateCmd(a *app) *cobra.Command {
	var f validateFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a CSV, JSON or Parquet file",
		Long: `Load a table, validate it and report the outcome.

On success the validated table is written to validated_<input>.csv in the
output directory; on failure the violations are written to
validation_errors.json. With --publish the run artifacts are also stored in
the backend selected by TABLECHECK_STORAGE.

Examples:
  tablecheck validate --input employees.csv
  tablecheck validate -i staff.parquet --schema staff.yaml --parallel 8
  tablecheck validate -i data.json --format json --out ./reports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("out") {
				f.outDir = a.cfg.OutDir
			}
			if !cmd.Flags().Changed("parallel") {
				f.parallel = a.cfg.Parallel
			}
			return a.validate(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input file (.csv, .json, .parquet)")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", ".", "output directory (default $TABLECHECK_OUT_DIR)")
	cmd.Flags().IntVarP(&f.parallel, "parallel", "p", 0, "number of row shards validated concurrently")
	cmd.Flags().BoolVar(&f.publish, "publish", false, "store run artifacts in the configured storage")
	cmd.Flags().StringVar(&f.format, "format", "text", "console output: text or json")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (a *app) validate(cmd *cobra.Command, f validateFlags) error {
	if f.format != "text" && f.format != "json" {
		return fmt.Errorf("invalid --format %q: must be text or json", f.format)
	}

	runID := uuid.New()
	ctx := logger.WithRunID(cmd.Context(), runID.String())
	log := a.log.With(logger.Schema(a.schema.Name()))

	t, err := loader.Open(ctx, f.input, loader.Hints(a.schema.Types()))
	if err != nil {
		return fmt.Errorf("load %s: %w", f.input, err)
	}
	log.InfoContext(ctx, "input loaded", logger.Path(f.input), logger.Rows(t.Len()))

	start := time.Now()
	out, err := validator.ValidateParallel(ctx, t, a.schema, f.parallel)
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "validation finished", logger.Duration(time.Since(start)))
	report.LogOutcome(ctx, log, out)

	if err := printOutcome(cmd, f.format, out); err != nil {
		return err
	}

	outDir, err := file.NewLocalStorage(f.outDir, "")
	if err != nil {
		return err
	}
	written, err := writeOutputs(cmd, outDir, f.input, runID, a.schema.Name(), out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", written)

	if f.publish {
		if err := a.publish(cmd, runID, out); err != nil {
			return err
		}
	}

	if !out.Success {
		return errViolations
	}
	return nil
}

func printOutcome(cmd *cobra.Command, format string, out validator.Outcome) error {
	if format == "text" {
		return report.Render(cmd.OutOrStdout(), out)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// writeOutputs stores the validated table or the error log in the output
// directory and returns the path written.
func writeOutputs(cmd *cobra.Command, dir *file.LocalStorage, input string, runID uuid.UUID, schema string, out validator.Outcome) (string, error) {
	var (
		buf  bytes.Buffer
		name string
	)
	if out.Success {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		name = validatedPrefix + base + ".csv"
		if err := report.WriteCSV(&buf, out.Table); err != nil {
			return "", err
		}
	} else {
		name = errorsFile
		errLog := report.NewErrorLog(out, schema)
		errLog.RunID = runID
		if err := errLog.WriteJSON(&buf); err != nil {
			return "", err
		}
	}

	obj, err := dir.Put(cmd.Context(), name, &buf, "")
	if err != nil {
		return "", err
	}
	return obj.URL, nil
}

func (a *app) publish(cmd *cobra.Command, runID uuid.UUID, out validator.Outcome) error {
	ctx := logger.WithRunID(cmd.Context(), runID.String())

	store, err := newStorage(ctx, a.cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("--publish needs TABLECHECK_STORAGE set to local or s3")
	}

	pub, err := report.NewPublisher(store, a.schema.Name(),
		report.WithPrefix(a.cfg.RunPrefix),
		report.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	objects, err := pub.Publish(ctx, runID, out)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		fmt.Fprintf(cmd.OutOrStdout(), "Published %s\n", obj.URL)
	}
	return nil
}
