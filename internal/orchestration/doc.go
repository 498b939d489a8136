// Package orchestration runs the selected workloads and aggregates their
// results into a global outcome. It decouples execution from presentation via
// the ProgressReporter and Presenter interfaces.
package orchestration
