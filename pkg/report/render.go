package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Render writes a human readable account of the outcome. Successful outcomes
// list the record count, category counts and column means; failed outcomes
// list every violation in report order.
func Render(w io.Writer, out validator.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if out.Success {
		renderSuccess(tw, out)
	} else {
		renderFailure(tw, out.Violations)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToRender, err)
	}
	return nil
}

func renderSuccess(w io.Writer, out validator.Outcome) {
	fmt.Fprintln(w, "Validation succeeded")

	sum := out.Summary
	if sum == nil {
		fmt.Fprintf(w, "Records:\t%s\n", humanize.Comma(int64(out.Table.Len())))
		return
	}
	fmt.Fprintf(w, "Records:\t%s\n", humanize.Comma(int64(sum.RecordCount)))

	if sum.Category != "" && len(sum.Counts) > 0 {
		fmt.Fprintf(w, "\nBy %s:\n", sum.Category)
		for _, k := range slices.Sorted(maps.Keys(sum.Counts)) {
			fmt.Fprintf(w, "  %s\t%s\n", k, humanize.Comma(int64(sum.Counts[k])))
		}
	}

	if len(sum.Means) > 0 {
		fmt.Fprintln(w, "\nMeans:")
		for _, k := range slices.Sorted(maps.Keys(sum.Means)) {
			fmt.Fprintf(w, "  %s\t%s\n", k, humanize.CommafWithDigits(sum.Means[k], 2))
		}
	}
}

func renderFailure(w io.Writer, vs validator.Violations) {
	fmt.Fprintf(w, "Validation failed: %s\n", plural(len(vs), "violation"))
	for i, v := range vs {
		fmt.Fprintf(w, "%4d. %s\n", i+1, v)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}
