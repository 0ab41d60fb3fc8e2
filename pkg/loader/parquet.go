package loader

import (
	"context"
	"errors"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// ReadParquet reads a whole Parquet file into memory through Arrow.
func ReadParquet(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenFile, err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(parquet.NewReaderProperties(nil)))
	if err != nil {
		return nil, errors.Join(ErrFailedToReadParquet, err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, errors.Join(ErrFailedToReadParquet, err)
	}

	at, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadParquet, err)
	}
	defer at.Release()

	return FromArrow(at)
}
