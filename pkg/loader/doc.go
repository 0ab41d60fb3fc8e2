// Package loader turns external tabular data into table.Table values.
//
// CSV and JSON inputs are untyped, so their readers take type hints (usually
// from a schema's Types) and coerce each cell to the hinted Go type: int64,
// float64, bool or time.Time. A cell that cannot be coerced is kept as it was
// read so validation reports it as a type violation. Empty CSV cells and JSON
// nulls become null.
//
// Arrow tables and Parquet files are already typed; their values are mapped
// to the same Go types without hints.
//
//	t, err := loader.Open(ctx, "employees.csv", employee.Types())
//	if err != nil {
//		return err
//	}
//	out := employee.Validate(t)
package loader
