package tui

import (
	"fmt"
	"io"
)

// tableWriter wraps the presenter's io.Writer and keeps the first write
// error. Once a write fails every later call is skipped, so a render method
// builds its whole table and checks Err once at the end.
type tableWriter struct {
	w   io.Writer
	err error
}

// printf writes a formatted string unless an earlier write failed.
func (tw *tableWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// println writes args and a trailing newline unless an earlier write failed.
func (tw *tableWriter) println(args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, args...)
}

// field writes one indented "label value" row with the label padded to
// width, as used by the summary and database blocks.
func (tw *tableWriter) field(width int, label string, value any) {
	tw.printf("  %-*s %v\n", width, label, value)
}

// Err returns the first write error, or nil if every write succeeded.
func (tw *tableWriter) Err() error {
	return tw.err
}
