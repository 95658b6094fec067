// Package tui provides the presentation layer for terminal output.
package tui

import (
	"io"
	"os"
)

// Format represents the output format.
type Format string

const (
	// FormatTable is the default table format.
	FormatTable Format = "table"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
	// FormatCSV is CSV format.
	FormatCSV Format = "csv"
)

// ParseFormat maps a flag value to a Format. Unknown values fall back to
// FormatTable.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatJSON:
		return FormatJSON
	case FormatCSV:
		return FormatCSV
	default:
		return FormatTable
	}
}

// Presenter defines the interface for output rendering.
type Presenter interface {
	// RenderUsers renders the user directory.
	RenderUsers(users []*UserView) error

	// RenderSessions renders a user's sessions.
	RenderSessions(sessions []*SessionView) error

	// RenderTotal renders a user's total activity.
	RenderTotal(total *TotalView) error

	// RenderUserStatus renders a user's activity status.
	RenderUserStatus(status *UserStatusView) error

	// RenderLastSession renders the date of a user's latest login.
	RenderLastSession(last *LastSessionView) error

	// RenderMonthly renders per-day activity for one month.
	RenderMonthly(monthly *MonthlyView) error

	// RenderInactive renders the result of an inactivity scan.
	RenderInactive(inactive *InactiveView) error

	// RenderSummary renders aggregated statistics for a user.
	RenderSummary(summary *SummaryView) error

	// RenderDatabase renders store information.
	RenderDatabase(db *DatabaseView) error

	// RenderConfig renders the configuration.
	RenderConfig(config *ConfigView) error

	// RenderError renders an error message.
	RenderError(err error) error

	// RenderMessage renders a simple message.
	RenderMessage(message string) error
}

// PresenterOptions configures presenter behavior.
type PresenterOptions struct {
	// Writer is the output destination.
	Writer io.Writer
	// UseColors indicates if colors should be used.
	UseColors bool
	// Verbose increases output verbosity.
	Verbose bool
	// TerminalWidth is the width of the terminal for table rendering.
	// If 0, the width will be auto-detected.
	TerminalWidth int
}

// NewPresenter creates a new presenter for the given format.
func NewPresenter(format Format, opts PresenterOptions) Presenter {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case FormatJSON:
		return NewJSONPresenter(opts)
	case FormatCSV:
		return NewCSVPresenter(opts)
	default:
		return NewTablePresenter(opts)
	}
}
