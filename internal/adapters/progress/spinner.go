package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/enio-ireland/nx/internal/usecase"
)

// NewProgressSink returns a spinner on terminals and plain lines otherwise
func NewProgressSink(tty bool, w io.Writer) usecase.ProgressSink {
	if tty {
		return NewSpinnerProgressReporter(w)
	}
	return NewLineProgressReporter(w)
}

// SpinnerProgressReporter implements progress reporting with a spinner
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(w io.Writer) *SpinnerProgressReporter {
	opt := spinner.WithWriter(w)
	if f, ok := w.(*os.File); ok {
		// spin only when the writer itself is a terminal
		opt = spinner.WithWriterFile(f)
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, opt)
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     w,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Spinner {
		r.spinner.Suffix = " " + formatEvent(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	if r.spinner.Active() {
		r.spinner.Stop()
	}
	if event.Stage == usecase.StageComplete {
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s\n", event.Message)
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgYellow).Sprint("●"), formatEvent(event))
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error stops the spinner for good and prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	color.New(color.FgRed).Fprintln(r.out, message)
}

// pause stops the spinner around fn and restarts it if it was running
func (r *SpinnerProgressReporter) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

// LineProgressReporter prints one line per event, for logs and pipes
type LineProgressReporter struct {
	out io.Writer
}

// NewLineProgressReporter creates a new line-based progress reporter
func NewLineProgressReporter(w io.Writer) *LineProgressReporter {
	return &LineProgressReporter{out: w}
}

// OnProgress prints the event
func (r *LineProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	fmt.Fprintln(r.out, formatEvent(event))
}

// Info prints an info message
func (r *LineProgressReporter) Info(message string) {
	fmt.Fprintln(r.out, message)
}

// Error prints an error message
func (r *LineProgressReporter) Error(message string) {
	color.New(color.FgRed).Fprintln(r.out, message)
}

func formatEvent(event usecase.ProgressEvent) string {
	if event.Total > 0 && event.Current > 0 && event.Stage != usecase.StageComplete {
		return fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	return event.Message
}

// Ensure reporters implement ProgressSink
var (
	_ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
	_ usecase.ProgressSink = (*LineProgressReporter)(nil)
)
