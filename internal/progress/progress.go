// Package progress renders a build activity indicator on stderr. The build
// holds the indicator and pauses it around every emitted log line so frames
// and log output never interleave.
package progress

import (
	"os"
	"strings"
)

// Indicator is the progress handle a build carries. Start begins (or
// relabels) the display, Pause clears the current frame so a log line can
// print cleanly, Resume continues rendering, Stop clears and ends it.
// Implementations are safe for concurrent use.
type Indicator interface {
	Start(label string)
	Pause()
	Resume()
	Stop()
}

// Noop is the indicator for non-interactive runs. All methods do nothing.
type Noop struct{}

func (Noop) Start(string) {}
func (Noop) Pause()       {}
func (Noop) Resume()      {}
func (Noop) Stop()        {}

// New selects an indicator for f: a Spinner when f is an interactive
// terminal, a Noop when disabled, piped, or on a dumb terminal.
func New(f *os.File, disabled bool) Indicator {
	if disabled || !isTerminal(f) || strings.ToLower(os.Getenv("TERM")) == "dumb" {
		return Noop{}
	}
	return NewSpinner(f)
}

// isTerminal reports whether f is attached to a TTY (character device).
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
