package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/metrics"
	"github.com/agbru/parfor/internal/sysmon"
	"github.com/agbru/parfor/internal/workload"
)

// ExecuteWorkloads runs the given workloads one at a time and collects their
// results in order. Once ctx is done, the remaining workloads are recorded
// with the context error without running.
func ExecuteWorkloads(ctx context.Context, workloads []workload.Workload, params workload.Params, progress ProgressReporter, out io.Writer) []WorkloadResult {
	results := make([]WorkloadResult, len(workloads))
	mem := metrics.NewMemoryCollector()

	for i, w := range workloads {
		results[i].Name = w.Name()
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		stop := progress.Track(w.Name(), out)
		before := mem.Snapshot()
		meter := sysmon.StartMeter()
		start := time.Now()
		m, err := w.Run(ctx, params)
		results[i].Duration = time.Since(start)
		results[i].System = meter.Stop()
		results[i].Memory = mem.Since(before)
		stop()

		results[i].Measurement = m
		results[i].Err = err
	}
	return results
}

// AnalyzeResults presents the summary table and determines the global
// outcome of a run.
//
// A mismatch between a parallel result and its sequential reference takes
// precedence over every other failure; any other failure is passed to the
// presenter's error handler, which chooses the exit code.
func AnalyzeResults(results []WorkloadResult, presenter Presenter, out io.Writer) int {
	presenter.PresentSummaryTable(results, out)

	var (
		firstErr error
		mismatch *apperrors.MismatchError
	)
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = res.Err
		}
		var me apperrors.MismatchError
		if mismatch == nil && errors.As(res.Err, &me) {
			mismatch = &me
		}
	}

	switch {
	case mismatch != nil:
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %v\n", *mismatch)
		return apperrors.ExitErrorMismatch
	case firstErr != nil:
		fmt.Fprintf(out, "\nGlobal Status: Failure.\n")
		return presenter.HandleError(firstErr, out)
	case len(results) == 0:
		fmt.Fprintf(out, "\nGlobal Status: Nothing to run.\n")
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. All parallel results match their sequential references.\n")
	return apperrors.ExitSuccess
}
