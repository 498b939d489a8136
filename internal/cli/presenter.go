package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/multierr"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/format"
	"github.com/agbru/parfor/internal/orchestration"
	"github.com/agbru/parfor/internal/ui"
)

// CLIResultPresenter renders workload results for the command line.
type CLIResultPresenter struct {
	// Quiet prints one tab-separated line per workload instead of the table.
	Quiet bool
}

var _ orchestration.Presenter = CLIResultPresenter{}

var summaryHeader = []string{"Workload", "Threads", "Parallel", "Sequential", "Speedup", "Rate", "Status"}

// PresentSummaryTable displays one row per workload. Padding is computed on
// the uncolored cells so that ANSI sequences do not break alignment.
func (p CLIResultPresenter) PresentSummaryTable(results []orchestration.WorkloadResult, out io.Writer) {
	if p.Quiet {
		for _, res := range results {
			fmt.Fprintln(out, FormatQuietLine(res))
		}
		return
	}

	rows := make([][]string, len(results))
	for i, res := range results {
		rows[i] = summaryRow(res)
	}
	widths := make([]int, len(summaryHeader))
	for c, h := range summaryHeader {
		widths[c] = len([]rune(h))
		for _, row := range rows {
			widths[c] = max(widths[c], len([]rune(row[c])))
		}
	}

	fmt.Fprintf(out, "\n--- Summary ---\n")
	for c, h := range summaryHeader {
		fmt.Fprint(out, ui.ColorBold(h), padRight("", widths[c]-len(h)), "   ")
	}
	fmt.Fprintln(out)

	for i, row := range rows {
		status := ui.ColorSuccess(row[6])
		if results[i].Err != nil {
			status = ui.ColorError(row[6])
		}
		fmt.Fprint(out,
			ui.ColorPrimary(row[0]), padRight("", widths[0]-len([]rune(row[0]))), "   ",
			ui.ColorInfo(row[1]), padRight("", widths[1]-len([]rune(row[1]))), "   ",
			row[2], padRight("", widths[2]-len([]rune(row[2]))), "   ",
			row[3], padRight("", widths[3]-len([]rune(row[3]))), "   ",
			ui.ColorWarning(row[4]), padRight("", widths[4]-len([]rune(row[4]))), "   ",
			row[5], padRight("", widths[5]-len([]rune(row[5]))), "   ",
			status, "\n",
		)
	}
}

func summaryRow(res orchestration.WorkloadResult) []string {
	m := res.Measurement
	threads, parallel, sequential, speedup, rate := "-", "-", "-", "-", "-"
	if m.Report.Plan.Partitions != nil {
		threads = strconv.Itoa(m.Report.Threads)
		parallel = format.FormatExecutionDuration(m.Parallel())
		rate = format.FormatRate(m.Ops, m.Parallel())
	}
	if m.Sequential > 0 {
		sequential = format.FormatExecutionDuration(m.Sequential)
		speedup = format.FormatSpeedup(m.Sequential, m.Parallel())
	}
	return []string{res.Name, threads, parallel, sequential, speedup, rate, statusText(res.Err)}
}

func statusText(err error) string {
	var me apperrors.MismatchError
	switch {
	case err == nil:
		return "✅ OK"
	case errors.As(err, &me):
		return "❌ Mismatch"
	case apperrors.IsContextError(err):
		return "⏹ Canceled"
	default:
		return "❌ Failed"
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// HandleError prints err, one line per failed partition when several
// partitions failed, and returns the exit code for it.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	DisplayFailures(out, err)
	return apperrors.ExitCodeFor(err)
}

// DisplayFailures writes each failure contained in err.
func DisplayFailures(out io.Writer, err error) {
	errs := multierr.Errors(err)
	if len(errs) == 1 {
		fmt.Fprintf(out, "%s %v\n", ui.ColorError("Error:"), err)
		return
	}
	fmt.Fprintf(out, "%s %d partitions failed:\n", ui.ColorError("Error:"), len(errs))
	for _, e := range errs {
		fmt.Fprintf(out, "  - %v\n", e)
	}
}
