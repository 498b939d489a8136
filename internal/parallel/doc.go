// Package parallel runs a loop body over an inclusive integer range, or over
// the outer dimension of a 2D range, using a fixed number of goroutines.
//
// The range is split into one contiguous partition per worker plus one for
// the caller (see Split). Workers are started through an errgroup, each on
// its own locked OS thread unless WithOSThreads(false) is given; the caller
// then runs its own partition, runs any partition whose worker could not be
// started, and joins every worker before returning. A failing or panicking
// partition never prevents the others from completing: failures are
// collected as Outcomes and returned as a combined error.
//
// Every call produces a Report (wall-clock and CPU time, plan, outcomes)
// delivered to a Reporter, which by default logs an "execution time" entry,
// and an OpenTelemetry span.
//
//	err := parallel.For(0, len(xs)-1, func(i int) { ys[i] = 2 * xs[i] }, runtime.NumCPU())
package parallel
