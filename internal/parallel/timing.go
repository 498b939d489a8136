package parallel

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/parfor/internal/logging"
)

// Report describes one completed parallel loop call. It is delivered to the
// configured Reporter after every worker has been joined.
type Report struct {
	RunID uuid.UUID
	// Dims is 1 for For/ForErr and 2 for For2D/For2DErr.
	Dims int
	// Plan partitions the outer range.
	Plan Plan
	// Inner is the range run in full by every partition of a 2D call.
	Inner    Range
	Threads  int
	Outcomes []Outcome
	// Elapsed is wall-clock time from just before dispatch to just after
	// the join, measured with Go's monotonic clock.
	Elapsed time.Duration
	// CPUTime is the process user+system CPU time consumed over the same
	// span. CPUTimeKnown is false on platforms without getrusage.
	CPUTime      time.Duration
	CPUTimeKnown bool
	// Err is the aggregated failure returned to the caller.
	Err error
	// FirstErr is the failure that occurred first in time, if any.
	FirstErr error
}

// Seconds returns the elapsed wall-clock time in seconds.
func (r Report) Seconds() float64 { return r.Elapsed.Seconds() }

// Failed returns the outcomes of the partitions that failed.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Fallbacks returns the number of partitions that ran on the caller because
// their worker could not be started.
func (r Report) Fallbacks() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Fallback {
			n++
		}
	}
	return n
}

//go:generate mockgen -destination=mocks/mock_reporter.go -package=mocks github.com/agbru/parfor/internal/parallel Reporter

// Reporter receives the Report of every parallel loop call. Implementations
// must be safe for concurrent use when loops run concurrently.
type Reporter interface {
	Report(r Report)
}

// ReporterFunc is a function adapter that implements Reporter.
type ReporterFunc func(r Report)

// Report calls the underlying function.
func (f ReporterFunc) Report(r Report) { f(r) }

// NopReporter discards every report.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(Report) {}

// MultiReporter fans a report out to several reporters in order.
type MultiReporter []Reporter

// Report forwards r to each reporter.
func (m MultiReporter) Report(r Report) {
	for _, rep := range m {
		rep.Report(r)
	}
}

// LogReporter writes one "execution time" entry per call and, when the call
// failed, an error entry.
type LogReporter struct {
	Logger logging.Logger
}

// Report logs the timing of r.
func (l LogReporter) Report(r Report) {
	fields := []logging.Field{
		logging.String("run_id", r.RunID.String()),
		logging.Int("dims", r.Dims),
		logging.Int("workers", r.Plan.Workers),
		logging.Int("chunk_size", r.Plan.ChunkSize),
		logging.Float64("seconds", r.Seconds()),
	}
	if r.CPUTimeKnown {
		fields = append(fields, logging.Float64("cpu_seconds", r.CPUTime.Seconds()))
	}
	l.Logger.Info("execution time", fields...)

	if r.Err != nil {
		l.Logger.Error("parallel loop failed", r.Err,
			logging.String("run_id", r.RunID.String()),
			logging.Int("failed_partitions", len(r.Failed())),
			logging.Err(r.FirstErr),
		)
	}
}

var defaultLogger = sync.OnceValue(func() logging.Logger {
	return logging.NewDefaultLogger()
})

// stopwatch captures wall-clock and process CPU time across one call.
type stopwatch struct {
	start   time.Time
	cpu     time.Duration
	cpuKnow bool
}

func startStopwatch() stopwatch {
	cpu, ok := processCPUTime()
	return stopwatch{start: time.Now(), cpu: cpu, cpuKnow: ok}
}

func (s stopwatch) stop() (elapsed, cpu time.Duration, cpuKnown bool) {
	elapsed = time.Since(s.start)
	if !s.cpuKnow {
		return elapsed, 0, false
	}
	now, ok := processCPUTime()
	if !ok {
		return elapsed, 0, false
	}
	return elapsed, now - s.cpu, true
}
