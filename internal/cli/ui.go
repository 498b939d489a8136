//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/parfor/internal/orchestration"
	"github.com/agbru/parfor/internal/ui"
)

// SpinnerRefreshRate is the animation interval of the progress spinner.
const SpinnerRefreshRate = 100 * time.Millisecond

// Spinner abstracts a terminal spinner so that progress display can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// SpinnerProgressReporter shows a spinner while each workload runs.
type SpinnerProgressReporter struct{}

var _ orchestration.ProgressReporter = SpinnerProgressReporter{}

// Track starts a spinner on out labeled with the workload name.
func (SpinnerProgressReporter) Track(name string, out io.Writer) func() {
	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(" running " + ui.ColorInfo(name) + "...")
	s.Start()
	return s.Stop
}
