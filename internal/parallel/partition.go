package parallel

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/parfor/internal/errors"
)

// Range is an inclusive integer interval [Low, High]. A Range with
// High < Low is empty.
type Range struct {
	Low, High int
}

// Len returns the number of indices in the range, or 0 when it is empty.
// Ranges accepted by Split never overflow here.
func (r Range) Len() int {
	if r.High < r.Low {
		return 0
	}
	return r.High - r.Low + 1
}

// Empty reports whether the range contains no index.
func (r Range) Empty() bool { return r.High < r.Low }

// Contains reports whether i lies within the range.
func (r Range) Contains(i int) bool { return r.Low <= i && i <= r.High }

// String renders the range as "[low,high]".
func (r Range) String() string { return fmt.Sprintf("[%d,%d]", r.Low, r.High) }

// Partition is the contiguous slice of a Range assigned to one executor.
// Inline marks the partition executed by the calling goroutine.
type Partition struct {
	Index int
	Range
	Inline bool
}

// Plan is the partitioning of a Range among Workers concurrent workers plus
// the caller. Partitions holds Workers+1 entries; the last is the caller's.
type Plan struct {
	Range     Range
	Workers   int
	ChunkSize int
	// Partitions are ordered by Index and, for a non-empty range, by bounds.
	Partitions []Partition
}

// Caller returns the partition executed inline by the calling goroutine.
func (p Plan) Caller() Partition { return p.Partitions[p.Workers] }

// Workers returns the number of workers started for a requested thread
// count. One share of the work is always reserved for the caller, so a
// request of one thread or fewer runs entirely inline.
func Workers(threads int) int {
	if threads > 1 {
		return threads - 1
	}
	return 0
}

// Split partitions [low, high] among workers concurrent workers and the
// caller.
//
// The chunk size is ceil((high-low+1) / (workers+1)). Worker i receives
// [low+i*chunk, low+(i+1)*chunk-1] clipped to high, and the caller receives
// the partition at index workers. Partitions are contiguous, disjoint, and
// cover exactly [low, high]. When workers is large relative to the range,
// trailing partitions are empty; their bounds are clamped to [high+1, high].
// An empty input range yields a plan whose partitions are all empty.
//
// Split is a pure function of its arguments.
func Split(low, high, workers int) (Plan, error) {
	if workers < 0 {
		return Plan{}, apperrors.ValidationError{Field: "workers", Message: "must not be negative"}
	}
	if err := validateRange("high", low, high); err != nil {
		return Plan{}, err
	}

	r := Range{Low: low, High: high}
	plan := Plan{Range: r, Workers: workers, Partitions: make([]Partition, workers+1)}

	n := r.Len()
	if n == 0 {
		for i := range plan.Partitions {
			plan.Partitions[i] = Partition{Index: i, Range: r, Inline: i == workers}
		}
		return plan, nil
	}

	// Same value as (n + workers) / (workers + 1) without the overflow.
	chunk := (n-1)/(workers+1) + 1
	plan.ChunkSize = chunk

	full := n / chunk
	offset := func(i int) int {
		if i > full {
			return n
		}
		return min(i*chunk, n)
	}

	for i := range plan.Partitions {
		lo, hi := offset(i), offset(i+1)
		plan.Partitions[i] = Partition{
			Index:  i,
			Range:  Range{Low: low + lo, High: low + hi - 1},
			Inline: i == workers,
		}
	}
	return plan, nil
}

// validateRange rejects bounds that an inclusive loop cannot iterate: an
// upper bound of MaxInt never terminates, and a span wider than MaxInt
// cannot be counted. An empty range (high < low) is valid.
func validateRange(field string, low, high int) error {
	if high < low {
		return nil
	}
	if high == math.MaxInt {
		return apperrors.ValidationError{Field: field, Message: "inclusive upper bound must be below MaxInt"}
	}
	if d := high - low; d < 0 || d == math.MaxInt {
		return apperrors.ValidationError{Field: field, Message: fmt.Sprintf("range [%d,%d] is wider than MaxInt", low, high)}
	}
	return nil
}
