// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayWelcome], [DisplayGoodbye], [DisplayFailures].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietLine], [FormatWorkloadList].

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/parfor/internal/config"
	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/format"
	"github.com/agbru/parfor/internal/orchestration"
	"github.com/agbru/parfor/internal/sysmon"
	"github.com/agbru/parfor/internal/ui"
	"github.com/agbru/parfor/internal/workload"
)

// DisplayWelcome prints the banner shown before any workload runs.
func DisplayWelcome(out io.Writer, cfg config.AppConfig, host sysmon.Host, workloads []workload.Workload) {
	var lines []string
	if h := FormatHost(host); h != "" {
		lines = append(lines, "host:         "+h)
	}
	lines = append(lines,
		fmt.Sprintf("threads:      %s", ui.ColorInfo(fmt.Sprint(cfg.Threads))),
		fmt.Sprintf("spawn policy: %s", cfg.SpawnPolicy),
	)
	if cfg.MaxThreads > 0 {
		lines = append(lines, fmt.Sprintf("max threads:  %d", cfg.MaxThreads))
	}
	lines = append(lines, "workloads:")
	lines = append(lines, FormatWorkloadList(workloads, cfg)...)
	fmt.Fprintln(out, ui.Banner("parfor: parallel loop executor", lines...))
}

// DisplayGoodbye prints the banner shown after the last workload.
func DisplayGoodbye(out io.Writer, exitCode int) {
	msg := ui.ColorSuccess("all workloads completed")
	if exitCode != apperrors.ExitSuccess {
		msg = ui.ColorError(fmt.Sprintf("finished with exit code %d", exitCode))
	}
	fmt.Fprintln(out, ui.Banner("done", msg))
}

// FormatHost describes the host on one line, or returns "" when nothing is
// known about it.
func FormatHost(h sysmon.Host) string {
	if h.LogicalCores == 0 {
		return ""
	}
	var parts []string
	if h.CPUModel != "" {
		parts = append(parts, strings.TrimSpace(h.CPUModel))
	}
	cores := fmt.Sprintf("%d logical CPUs", h.LogicalCores)
	if h.PhysicalCores > 0 && h.PhysicalCores != h.LogicalCores {
		cores = fmt.Sprintf("%d cores, %d logical CPUs", h.PhysicalCores, h.LogicalCores)
	}
	parts = append(parts, cores)
	if h.TotalMemory > 0 {
		parts = append(parts, format.FormatBytes(h.TotalMemory)+" RAM")
	}
	return strings.Join(parts, ", ")
}

// FormatWorkloadList returns one descriptive line per workload.
func FormatWorkloadList(workloads []workload.Workload, cfg config.AppConfig) []string {
	p := workload.Params{Size: cfg.Size, Rows: cfg.Rows, Cols: cfg.Cols}
	lines := make([]string, len(workloads))
	for i, w := range workloads {
		lines[i] = fmt.Sprintf("  %-9s %s (%d iterations)", w.Name(), w.Description(), w.Ops(p))
	}
	return lines
}

// FormatQuietLine formats a result as "name<TAB>seconds<TAB>status" for
// scripting.
func FormatQuietLine(res orchestration.WorkloadResult) string {
	status := "ok"
	if res.Err != nil {
		status = strings.ToLower(strings.Fields(statusText(res.Err))[1])
	}
	return fmt.Sprintf("%s\t%.6f\t%s", res.Name, res.Measurement.Parallel().Seconds(), status)
}

// DisplayResources writes the allocation activity and the system CPU
// utilization of each workload.
func DisplayResources(out io.Writer, results []orchestration.WorkloadResult) {
	fmt.Fprintf(out, "\nResources:\n")
	for _, res := range results {
		fmt.Fprintf(out, "  %-9s allocated %s, %d GC cycles, heap %s, system CPU %.0f%%\n",
			res.Name, format.FormatBytes(res.Memory.Allocated), res.Memory.GCCycles,
			format.FormatBytes(res.Memory.HeapAfter), res.System.CPUPercent)
	}
}
