package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/parfor/internal/format"
	"github.com/agbru/parfor/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
// Speedups are relative to the single-thread point when there is one.
func printCalibrationResults(out io.Writer, results []Result, bestThreads int) {
	var baseline Result
	for _, r := range results {
		if r.Threads == 1 && r.Err == nil {
			baseline = r
		}
	}

	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %s\t│ %s\t│ %s\n", ui.ColorBold("Threads"), ui.ColorBold("Best Time"), ui.ColorBold("Speedup"))
	fmt.Fprintf(tw, "  %s\t┼%s\t┼%s\n", strings.Repeat("─", 9), strings.Repeat("─", 16), strings.Repeat("─", 20))
	for _, res := range results {
		durationStr := ui.ColorError("N/A")
		speedup := "n/a"
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				durationStr = "< 1µs"
			}
			if baseline.Threads == 1 {
				speedup = format.FormatSpeedup(baseline.Duration, res.Duration)
			}
		}
		highlight := ""
		if res.Threads == bestThreads && res.Err == nil {
			highlight = " " + ui.ColorSuccess("(Optimal)")
		}
		fmt.Fprintf(tw, "  %s\t│ %s\t│ %s%s\n",
			ui.ColorInfo(fmt.Sprintf("%d", res.Threads)),
			ui.ColorWarning(durationStr),
			speedup, highlight)
	}
	tw.Flush()
}

func printCalibrationOutput(out io.Writer, p *CalibrationProfile) {
	fmt.Fprintf(out, "%s: threads=%s (workload %s, size %d, took %s)\n",
		ui.ColorSuccess("Auto-calibration"),
		ui.ColorWarning(fmt.Sprintf("%d", p.OptimalThreads)),
		p.Workload, p.Size, p.CalibrationTime)
}
