package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// Open loads a file, choosing the reader by extension: .csv, .json or
// .parquet. Hints apply to CSV and JSON only.
func Open(ctx context.Context, path string, hints Hints) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".parquet" || ext == ".pq" {
		return ReadParquet(ctx, path)
	}
	if ext != ".csv" && ext != ".json" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenFile, err)
	}
	defer f.Close()

	if ext == ".csv" {
		return ReadCSV(f, hints)
	}
	return ReadJSON(f, hints)
}
