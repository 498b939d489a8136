package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds below a millisecond, milliseconds below a second, and
// the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatSeconds renders a duration as fractional seconds with microsecond
// resolution, the unit used by the execution time report.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.6f s", d.Seconds())
}

// FormatSpeedup renders the ratio of a baseline duration to d, such as
// "3.42x". It returns "n/a" when d is not positive.
func FormatSpeedup(baseline, d time.Duration) string {
	if d <= 0 || baseline <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2fx", float64(baseline)/float64(d))
}

// FormatRate renders ops operations over d as a per-second rate with an SI
// suffix, e.g. "12.5 M/s".
func FormatRate(ops int64, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	rate := float64(ops) / d.Seconds()
	switch {
	case rate >= 1e9:
		return fmt.Sprintf("%.2f G/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.2f M/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.2f k/s", rate/1e3)
	default:
		return fmt.Sprintf("%.2f /s", rate)
	}
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
