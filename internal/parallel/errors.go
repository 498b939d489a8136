package parallel

import (
	"errors"
	"sync"

	"go.uber.org/multierr"
)

// ErrWorkerLimit is the spawn failure reported when the WithMaxThreads limit
// leaves no room for another worker.
var ErrWorkerLimit = errors.New("parallel: worker limit reached")

// ErrorCollector keeps the first non-nil error reported to it. It is safe
// for concurrent use; the zero value is ready to use.
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError records err if it is the first non-nil error seen. Nil errors are
// ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// aggregate combines the failures of outcomes in partition order. The result
// is nil when no partition failed; multierr.Errors lists the individual
// failures otherwise.
func aggregate(outcomes []Outcome) error {
	var err error
	for _, o := range outcomes {
		if o.Err != nil {
			err = multierr.Append(err, o.Err)
		}
	}
	return err
}
