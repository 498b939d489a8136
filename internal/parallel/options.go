package parallel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/logging"
)

// SpawnPolicy selects what a call does when a worker cannot be started.
type SpawnPolicy int

const (
	// SpawnFallbackInline runs the partition on the caller after its own
	// partition. The call still succeeds if the body does.
	SpawnFallbackInline SpawnPolicy = iota
	// SpawnAbort stops dispatching, skips the caller's and all remaining
	// partitions, joins the workers already started, and returns the
	// spawn failure.
	SpawnAbort
)

// String returns the configuration name of the policy.
func (p SpawnPolicy) String() string {
	switch p {
	case SpawnFallbackInline:
		return "inline"
	case SpawnAbort:
		return "abort"
	default:
		return fmt.Sprintf("SpawnPolicy(%d)", int(p))
	}
}

// ParseSpawnPolicy converts a configuration name ("inline" or "abort") into
// a SpawnPolicy.
func ParseSpawnPolicy(name string) (SpawnPolicy, error) {
	switch name {
	case "inline", "":
		return SpawnFallbackInline, nil
	case "abort":
		return SpawnAbort, nil
	default:
		return 0, apperrors.ValidationError{Field: "spawn-policy", Message: fmt.Sprintf("unknown policy %q (want inline or abort)", name)}
	}
}

// Option configures a single parallel loop call.
type Option func(*config)

type config struct {
	ctx         context.Context
	logger      logging.Logger
	reporter    Reporter
	tracer      trace.Tracer
	maxThreads  int
	spawnPolicy SpawnPolicy
	pinThreads  bool
	// spawnHook, when set, is consulted before each worker starts; a
	// non-nil error is treated as a failure to start that worker.
	spawnHook func(partition int) error
	err       error
}

func newConfig(opts []Option) (*config, error) {
	c := &config{
		ctx:        context.Background(),
		pinThreads: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.logger == nil {
		c.logger = defaultLogger()
	}
	if c.reporter == nil {
		c.reporter = LogReporter{Logger: c.logger}
	}
	if c.tracer == nil {
		c.tracer = defaultTracer()
	}
	return c, nil
}

// WithReporter sets the destination of the per-call Report. Use NopReporter
// to discard reports; a nil Reporter is rejected.
func WithReporter(r Reporter) Option {
	return func(c *config) {
		if r == nil {
			c.err = apperrors.ValidationError{Field: "reporter", Message: "must not be nil"}
			return
		}
		c.reporter = r
	}
}

// WithLogger sets the logger used for warnings and, unless WithReporter is
// given, for the timing report.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer sets the tracer used for the per-call span.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// WithContext sets the parent context of the per-call span. The context is
// not used for cancellation: a call always runs to completion.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithMaxThreads bounds the number of workers running at the same time.
// Zero means no bound. A worker that cannot start because the bound is
// reached is handled according to the SpawnPolicy.
func WithMaxThreads(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.err = apperrors.ValidationError{Field: "max-threads", Message: "must not be negative"}
			return
		}
		c.maxThreads = n
	}
}

// WithSpawnPolicy selects the behavior when a worker cannot be started.
func WithSpawnPolicy(p SpawnPolicy) Option {
	return func(c *config) { c.spawnPolicy = p }
}

// WithOSThreads controls whether each worker is locked to its own OS thread
// for its lifetime. Enabled by default.
func WithOSThreads(enabled bool) Option {
	return func(c *config) { c.pinThreads = enabled }
}
