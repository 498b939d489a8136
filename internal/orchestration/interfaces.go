package orchestration

import (
	"io"
	"time"

	"github.com/agbru/parfor/internal/metrics"
	"github.com/agbru/parfor/internal/sysmon"
	"github.com/agbru/parfor/internal/workload"
)

// WorkloadResult encapsulates the outcome of a single workload run.
// It is the shared domain type between orchestration and presentation.
type WorkloadResult struct {
	// Name identifies the workload (e.g. "matrix").
	Name string
	// Measurement holds the loop report and the sequential reference time.
	// It is partially filled when Err is set.
	Measurement workload.Measurement
	// Memory is the allocation activity observed during the run.
	Memory metrics.MemoryDelta
	// System is the system-wide CPU utilization during the run and the
	// memory usage after it.
	System sysmon.Stats
	// Duration is the total time of the run, reference included.
	Duration time.Duration
	// Err is nil when the parallel result matched the reference.
	Err error
}

// ProgressReporter displays progress while a workload runs. This interface
// decouples orchestration from presentation concerns such as spinners.
type ProgressReporter interface {
	// Track starts displaying progress for the named workload and returns a
	// function that stops the display.
	Track(name string, out io.Writer) (stop func())
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(name string, out io.Writer) func()

// Track calls the underlying function.
func (f ProgressReporterFunc) Track(name string, out io.Writer) func() {
	return f(name, out)
}

// NullProgressReporter displays nothing. Useful for quiet mode or testing.
type NullProgressReporter struct{}

// Track returns a no-op stop function.
func (NullProgressReporter) Track(string, io.Writer) func() { return func() {} }

// ResultPresenter renders workload results.
type ResultPresenter interface {
	// PresentSummaryTable displays one row per workload.
	PresentSummaryTable(results []WorkloadResult, out io.Writer)
}

// ErrorHandler reports an error and returns the exit code for it.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}

// Presenter combines result presentation and error handling.
type Presenter interface {
	ResultPresenter
	ErrorHandler
}
