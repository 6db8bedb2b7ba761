// Package progress renders the process state on the terminal while the engine
// loop runs.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/tucha-cloud/tucha/internal/process"
)

// Reporter is what the engine loop calls after every tick.
type Reporter interface {
	Show(state process.State)
	Finish()
}

// Status shows a spinner with the running operation label. On a non-terminal
// writer it prints each new label once instead.
type Status struct {
	w   io.Writer
	tty bool

	bar  *progressbar.ProgressBar
	last process.Kind
}

// NewStatus creates a status line on w. tty selects the spinner.
func NewStatus(w io.Writer, tty bool) *Status {
	return &Status{w: w, tty: tty}
}

// NewStderrStatus creates a status line on stderr, animated when stderr is a terminal.
func NewStderrStatus() *Status {
	return NewStatus(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// Show renders state. Running states keep the spinner moving; any other
// state stops it.
func (s *Status) Show(state process.State) {
	kind, running := state.Kind()
	if !running {
		s.Finish()
		return
	}

	if kind != s.last {
		s.last = kind
		if !s.tty {
			fmt.Fprintln(s.w, kind.String())
			return
		}
		if s.bar == nil {
			s.bar = s.newSpinner(kind.String())
		} else {
			s.bar.Describe(kind.String())
		}
	}
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// Finish clears the spinner.
func (s *Status) Finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
		s.bar = nil
	}
	s.last = 0
}

func (s *Status) newSpinner(desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(0),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// NoOpProgress is a reporter that does nothing (for --quiet runs and tests).
type NoOpProgress struct{}

func (NoOpProgress) Show(process.State) {}
func (NoOpProgress) Finish()            {}
