// Command tablecheck validates tabular data against a declarative schema.
//
// Usage:
//
//	# Validate a CSV file against the built-in employee schema
//	tablecheck validate --input employees.csv
//
//	# Validate a Parquet file against a YAML schema, publishing artifacts
//	tablecheck validate --schema staff.yaml --input staff.parquet --publish
//
//	# Serve the validation API
//	tablecheck serve --addr :8080
//
//	# Print the effective schema
//	tablecheck schema
//
// Configuration is read from the environment and an optional .env file.
// The exit code is 0 when the data is valid, 2 when it has violations and 1
// on any other error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errViolations):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
