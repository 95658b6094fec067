package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinner struct {
	writer   io.Writer
	interval time.Duration
	color    *Colorizer
	err      error
}

func (s *spinner) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.writer, format, args...)
}

// SpinnerOption configures RunWithSpinner.
type SpinnerOption func(*spinner)

// WithWriter sets where the spinner is drawn. Defaults to os.Stderr.
func WithWriter(w io.Writer) SpinnerOption {
	return func(s *spinner) {
		s.writer = w
	}
}

// WithInterval sets the frame interval.
func WithInterval(d time.Duration) SpinnerOption {
	return func(s *spinner) {
		s.interval = d
	}
}

// WithColors enables or disables the colored frame.
func WithColors(enabled bool) SpinnerOption {
	return func(s *spinner) {
		s.color = NewColorizer(enabled)
	}
}

// RunWithSpinner runs fn while drawing a spinner with message. Nothing is
// drawn unless the writer is a terminal.
func RunWithSpinner[T any](message string, fn func() (T, error), opts ...SpinnerOption) (T, error) {
	s := spinner{
		writer:   os.Stderr,
		interval: 100 * time.Millisecond,
		color:    NewColorizer(true),
	}
	for _, opt := range opts {
		opt(&s)
	}

	if !IsWriterTerminal(s.writer) {
		return fn()
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.printf("\033[2K\r%s %s", s.color.Apply(Cyan, spinnerFrames[i%len(spinnerFrames)]), message)
			select {
			case <-stop:
				s.printf("\033[2K\r")
				return
			case <-ticker.C:
			}
		}
	}()

	result, err := fn()

	close(stop)
	wg.Wait()

	if err != nil {
		return result, err
	}

	return result, s.err
}
