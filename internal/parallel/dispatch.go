package parallel

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/logging"
)

var errNilBody = apperrors.ValidationError{Field: "body", Message: "must not be nil"}

// For calls body(i) exactly once for every i in the inclusive range
// [low, high], spreading the work over threads-1 worker goroutines and the
// calling goroutine. Within a partition indices are visited in ascending
// order; there is no ordering between partitions.
//
// For blocks until every partition has finished, delivers a Report to the
// configured Reporter and returns. A panic in body is recovered and returned
// as an apperrors.PartitionError; the other partitions still run to
// completion. When high < low no index is visited and For returns nil.
func For(low, high int, body func(i int), threads int, opts ...Option) error {
	if body == nil {
		return errNilBody
	}
	return run(1, low, high, Range{Low: 0, High: -1}, threads, func(r Range) error {
		for i := r.Low; i <= r.High; i++ {
			body(i)
		}
		return nil
	}, opts)
}

// ForErr is For with a fallible body. A partition stops at the first index
// whose body returns an error; other partitions are not interrupted. The
// failures of all partitions are combined in partition order with
// go.uber.org/multierr.
func ForErr(low, high int, body func(i int) error, threads int, opts ...Option) error {
	if body == nil {
		return errNilBody
	}
	return run(1, low, high, Range{Low: 0, High: -1}, threads, func(r Range) error {
		for i := r.Low; i <= r.High; i++ {
			if err := body(i); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	}, opts)
}

// For2D calls body(i, j) exactly once for every pair in
// [low1, high1] x [low2, high2]. Only the outer range is partitioned; each
// partition runs the full inner range for each of its outer indices, with j
// ascending inside i ascending.
func For2D(low1, high1, low2, high2 int, body func(i, j int), threads int, opts ...Option) error {
	if body == nil {
		return errNilBody
	}
	inner := Range{Low: low2, High: high2}
	return run(2, low1, high1, inner, threads, func(r Range) error {
		for i := r.Low; i <= r.High; i++ {
			for j := inner.Low; j <= inner.High; j++ {
				body(i, j)
			}
		}
		return nil
	}, opts)
}

// For2DErr is For2D with a fallible body.
func For2DErr(low1, high1, low2, high2 int, body func(i, j int) error, threads int, opts ...Option) error {
	if body == nil {
		return errNilBody
	}
	inner := Range{Low: low2, High: high2}
	return run(2, low1, high1, inner, threads, func(r Range) error {
		for i := r.Low; i <= r.High; i++ {
			for j := inner.Low; j <= inner.High; j++ {
				if err := body(i, j); err != nil {
					return fmt.Errorf("index (%d,%d): %w", i, j, err)
				}
			}
		}
		return nil
	}, opts)
}

func run(dims, low, high int, inner Range, threads int, k kernel, opts []Option) error {
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}
	if dims == 2 {
		if err := validateRange("high2", inner.Low, inner.High); err != nil {
			return err
		}
	}
	plan, err := Split(low, high, Workers(threads))
	if err != nil {
		return err
	}

	runID := uuid.New()
	_, span := startSpan(cfg, dims, threads, plan, inner)
	sw := startStopwatch()

	outcomes, first := dispatch(cfg, runID, plan, k)

	elapsed, cpu, cpuKnown := sw.stop()
	report := Report{
		RunID:        runID,
		Dims:         dims,
		Plan:         plan,
		Inner:        inner,
		Threads:      threads,
		Outcomes:     outcomes,
		Elapsed:      elapsed,
		CPUTime:      cpu,
		CPUTimeKnown: cpuKnown,
		Err:          aggregate(outcomes),
		FirstErr:     first,
	}
	finishSpan(span, report)
	cfg.reporter.Report(report)
	return report.Err
}

// dispatch starts one worker per non-empty worker partition, runs the
// caller's partition and any fallback partitions on the current goroutine,
// then joins every worker. It returns the outcomes indexed by partition and
// the first failure observed in time.
func dispatch(cfg *config, runID uuid.UUID, plan Plan, k kernel) ([]Outcome, error) {
	outcomes := make([]Outcome, len(plan.Partitions))
	var (
		g         errgroup.Group
		collector ErrorCollector
		fallback  []Partition
		aborted   bool
	)
	if cfg.maxThreads > 0 {
		g.SetLimit(cfg.maxThreads)
	}

	for _, p := range plan.Partitions[:plan.Workers] {
		if aborted || p.Empty() {
			outcomes[p.Index] = Outcome{Partition: p, Status: StatusSkipped}
			continue
		}

		err := cfg.spawn(&g, p, func() error {
			if cfg.pinThreads {
				runtime.LockOSThread()
				defer runtime.UnlockOSThread()
			}
			o := execute(p, k)
			outcomes[p.Index] = o
			collector.SetError(o.Err)
			return nil
		})
		if err == nil {
			continue
		}

		spawnErr := apperrors.SpawnError{Index: p.Index, Cause: err}
		if cfg.spawnPolicy == SpawnAbort {
			cfg.logger.Error("aborting parallel loop", spawnErr,
				logging.String("run_id", runID.String()),
				logging.Int("partition", p.Index),
			)
			outcomes[p.Index] = Outcome{Partition: p, Status: StatusFailed, Err: spawnErr}
			collector.SetError(spawnErr)
			aborted = true
			continue
		}
		cfg.logger.Warn("worker could not be started, running partition inline",
			logging.String("run_id", runID.String()),
			logging.Int("partition", p.Index),
			logging.Int("low", p.Low),
			logging.Int("high", p.High),
			logging.Err(spawnErr),
		)
		fallback = append(fallback, p)
	}

	caller := plan.Caller()
	if aborted {
		outcomes[caller.Index] = Outcome{Partition: caller, Status: StatusSkipped}
	} else {
		o := execute(caller, k)
		outcomes[caller.Index] = o
		collector.SetError(o.Err)

		for _, p := range fallback {
			o := execute(p, k)
			o.Fallback = true
			outcomes[p.Index] = o
			collector.SetError(o.Err)
		}
	}

	// Workers never return an error; failures travel through outcomes.
	_ = g.Wait()
	return outcomes, collector.Err()
}

// spawn starts work on a new goroutine for partition p, or reports why it
// could not.
func (c *config) spawn(g *errgroup.Group, p Partition, work func() error) error {
	if c.spawnHook != nil {
		if err := c.spawnHook(p.Index); err != nil {
			return err
		}
	}
	if !g.TryGo(work) {
		return ErrWorkerLimit
	}
	return nil
}
