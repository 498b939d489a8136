package parallel

import (
	"time"

	"github.com/sourcegraph/conc/panics"

	apperrors "github.com/agbru/parfor/internal/errors"
)

// Status is the terminal state of one partition.
type Status int

const (
	// StatusOK means every index of the partition was visited.
	StatusOK Status = iota
	// StatusFailed means the partition stopped at its first failure, or its
	// worker could not be started under SpawnAbort.
	StatusFailed
	// StatusSkipped means the partition never ran: it was empty, or the call
	// was aborted before reaching it.
	StatusSkipped
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one partition, inspected by the caller
// after every worker has been joined.
type Outcome struct {
	Partition Partition
	Status    Status
	// Err is an apperrors.PartitionError or apperrors.SpawnError when
	// Status is StatusFailed, nil otherwise.
	Err error
	// Fallback marks a worker partition that ran on the caller because its
	// worker could not be started.
	Fallback bool
	Elapsed  time.Duration
}

// kernel visits every index of one partition in ascending order and returns
// the first failure.
type kernel func(r Range) error

// execute runs k over p, converting a panic into an error. It never panics.
func execute(p Partition, k kernel) Outcome {
	if p.Empty() {
		return Outcome{Partition: p, Status: StatusSkipped}
	}

	start := time.Now()
	var (
		err error
		pc  panics.Catcher
	)
	pc.Try(func() { err = k(p.Range) })
	if r := pc.Recovered(); r != nil {
		err = r.AsError()
	}

	o := Outcome{Partition: p, Status: StatusOK, Elapsed: time.Since(start)}
	if err != nil {
		o.Status = StatusFailed
		o.Err = apperrors.PartitionError{Index: p.Index, Low: p.Low, High: p.High, Cause: err}
	}
	return o
}
