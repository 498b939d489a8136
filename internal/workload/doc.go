// Package workload provides the computations that exercise the parallel loop
// executor from the command line. Each workload runs its loop in parallel,
// recomputes the result sequentially, and returns an
// apperrors.MismatchError if the two differ.
package workload
