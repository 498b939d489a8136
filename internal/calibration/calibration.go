package calibration

import (
	"context"
	"errors"
	"io"
	"time"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/logging"
	"github.com/agbru/parfor/internal/workload"
)

// Result is the measurement of one thread count.
type Result struct {
	Threads int
	// Duration is the fastest parallel time over the repeats.
	Duration time.Duration
	Err      error
}

// Options configures a sweep.
type Options struct {
	Workload workload.Workload
	// Params sizes the workload. Its Threads is overwritten per point.
	Params workload.Params
	// Counts are the thread counts tried, usually from GenerateThreadCounts.
	Counts  []int
	Repeats int
	Logger  logging.Logger
}

// Sweep runs the workload once per repeat for every thread count and keeps
// the fastest parallel time of each. A failing count is recorded and the
// sweep moves on; a done context stops it.
func Sweep(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Workload == nil {
		return nil, apperrors.ValidationError{Field: "workload", Message: "must not be nil"}
	}
	if len(opts.Counts) == 0 {
		return nil, apperrors.ValidationError{Field: "counts", Message: "must not be empty"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	repeats := max(opts.Repeats, 1)

	results := make([]Result, 0, len(opts.Counts))
	for _, threads := range opts.Counts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		params := opts.Params
		params.Threads = threads

		res := Result{Threads: threads}
		for range repeats {
			m, err := opts.Workload.Run(ctx, params)
			if err != nil {
				res.Err = err
				break
			}
			if d := m.Parallel(); res.Duration == 0 || d < res.Duration {
				res.Duration = d
			}
		}
		if res.Err != nil {
			if apperrors.IsContextError(res.Err) {
				return results, res.Err
			}
			logger.Warn("calibration point failed",
				logging.Int("threads", threads),
				logging.Err(res.Err),
			)
		} else {
			logger.Debug("calibration point",
				logging.Int("threads", threads),
				logging.Duration("best", res.Duration),
			)
		}
		results = append(results, res)
	}
	return results, nil
}

// Best returns the thread count with the shortest successful duration. Ties
// go to the smaller count. It returns 0 when no point succeeded.
func Best(results []Result) int {
	best, bestDur := 0, time.Duration(0)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if best == 0 || r.Duration < bestDur || (r.Duration == bestDur && r.Threads < best) {
			best, bestDur = r.Threads, r.Duration
		}
	}
	return best
}

// Calibrate sweeps opts, prints the results table to out and returns a
// profile holding the optimal thread count. The profile is not saved.
func Calibrate(ctx context.Context, opts Options, out io.Writer) (*CalibrationProfile, error) {
	start := time.Now()
	results, err := Sweep(ctx, opts)
	if err != nil {
		return nil, err
	}
	best := Best(results)
	printCalibrationResults(out, results, best)
	if best == 0 {
		return nil, apperrors.WrapError(firstErr(results), "calibration found no working thread count")
	}

	profile := NewProfile()
	profile.Workload = opts.Workload.Name()
	profile.Size = opts.Params.Size
	profile.OptimalThreads = best
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	for _, r := range results {
		if r.Err == nil {
			profile.Points = append(profile.Points, Point{Threads: r.Threads, Seconds: r.Duration.Seconds()})
		}
	}
	printCalibrationOutput(out, profile)
	return profile, nil
}

func firstErr(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return errors.New("no points measured")
}
