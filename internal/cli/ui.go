//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/squash/internal/orchestration"
)

// SpinnerRefreshRate defines the refresh frequency of the busy spinner.
const SpinnerRefreshRate = 120 * time.Millisecond

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// SpinnerObserver shows a spinner with the policy's busy text while a
// submission is outstanding.
type SpinnerObserver struct {
	mu      sync.Mutex
	out     io.Writer
	spinner Spinner
}

var _ orchestration.StateObserver = (*SpinnerObserver)(nil)

// NewSpinnerObserver creates an observer drawing on out.
func NewSpinnerObserver(out io.Writer) *SpinnerObserver {
	return &SpinnerObserver{out: out}
}

// StateChanged starts the spinner on entering Submitting and stops it on
// any other state.
func (o *SpinnerObserver) StateChanged(snap orchestration.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if snap.Busy() {
		if o.spinner == nil {
			o.spinner = newSpinner(o.out)
			o.spinner.UpdateSuffix(" " + snap.Policy.Display.BusyText)
			o.spinner.Start()
		}
		return
	}
	if o.spinner != nil {
		o.spinner.Stop()
		o.spinner = nil
	}
}
