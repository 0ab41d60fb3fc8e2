// Package report turns validation outcomes into output: console text, a JSON
// error log, a CSV export of the validated table, structured log records and
// artifacts published to a file.Storage.
//
// Nothing here changes an outcome; every function only reads it.
//
//	out := employee.Validate(t)
//	if err := report.Render(os.Stdout, out); err != nil {
//		return err
//	}
//	if !out.Success {
//		log := report.NewErrorLog(out, "employee")
//		return log.WriteJSON(f)
//	}
//	return report.WriteCSV(f, out.Table)
package report
