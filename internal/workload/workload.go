package workload

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/parallel"
)

// Params sizes a workload run and configures its parallel loops.
type Params struct {
	Threads int
	// Size is the element count of one-dimensional workloads.
	Size int
	// Rows and Cols shape the matrix workload.
	Rows, Cols int
	// Options are passed to every parallel loop. They must not include
	// WithReporter or WithContext; use Reporter and the Run context.
	Options []parallel.Option
	// Reporter, when set, also receives the report of every loop.
	Reporter parallel.Reporter
}

// Measurement is what one successful or failed run produced.
type Measurement struct {
	// Ops counts the body invocations of the parallel loop.
	Ops int64
	// Report is the parallel loop's report. Its Elapsed is the parallel time.
	Report parallel.Report
	// Sequential is the time of the single-threaded reference computation.
	Sequential time.Duration
}

// Parallel returns the wall-clock time of the parallel loop.
func (m Measurement) Parallel() time.Duration { return m.Report.Elapsed }

// Workload is a computation run once in parallel and once sequentially, the
// two results being compared.
type Workload interface {
	Name() string
	Description() string
	// Ops returns the number of body invocations a run with p performs.
	Ops(p Params) int64
	Run(ctx context.Context, p Params) (Measurement, error)
}

var registry = []Workload{Vector{}, Matrix{}, Checksum{}}

// All returns every registered workload in display order.
func All() []Workload { return slices.Clone(registry) }

// Names returns the names of the registered workloads.
func Names() []string {
	names := make([]string, len(registry))
	for i, w := range registry {
		names[i] = w.Name()
	}
	return names
}

// Select resolves a workload name, or "all", into the workloads to run.
func Select(name string) ([]Workload, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "all" {
		return All(), nil
	}
	for _, w := range registry {
		if w.Name() == name {
			return []Workload{w}, nil
		}
	}
	return nil, apperrors.ValidationError{
		Field:   "workload",
		Message: fmt.Sprintf("unknown workload %q (want %s or all)", name, strings.Join(Names(), ", ")),
	}
}

// loopOptions returns p.Options extended with ctx and a reporter that stores
// the loop's report into dst.
func loopOptions(ctx context.Context, p Params, dst *parallel.Report) []parallel.Option {
	var rep parallel.Reporter = parallel.ReporterFunc(func(r parallel.Report) { *dst = r })
	if p.Reporter != nil {
		rep = parallel.MultiReporter{rep, p.Reporter}
	}
	return append(slices.Clone(p.Options), parallel.WithContext(ctx), parallel.WithReporter(rep))
}

func timed(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}
