package tui

import (
	"fmt"
	"io"
	"sort"

	"github.com/safedep/tally/core/activity"
)

// TablePresenter renders output in table format.
type TablePresenter struct {
	w         io.Writer
	color     *Colorizer
	verbose   bool
	termWidth int
}

// NewTablePresenter creates a new table presenter.
func NewTablePresenter(opts PresenterOptions) *TablePresenter {
	termWidth := opts.TerminalWidth
	if termWidth == 0 {
		termWidth = GetTerminalWidth(opts.Writer)
	}
	return &TablePresenter{
		w:         opts.Writer,
		color:     NewColorizer(opts.UseColors),
		verbose:   opts.Verbose,
		termWidth: termWidth,
	}
}

func (p *TablePresenter) writer() *tableWriter {
	return &tableWriter{w: p.w}
}

// RenderUsers renders the user directory.
func (p *TablePresenter) RenderUsers(users []*UserView) error {
	tw := p.writer()
	if len(users) == 0 {
		tw.println("No users registered.")
		return tw.Err()
	}

	tw.printf("Users (%d)\n", len(users))
	tw.println(HorizontalLine(p.termWidth))
	tw.printf("%-24s %-30s %s\n", "User ID", "Name", "Registered")
	tw.println(HorizontalLine(p.termWidth))

	for _, u := range users {
		tw.printf("%-24s %-30s %s\n",
			p.color.User(TruncateString(u.ID, 24)),
			TruncateString(u.Name, 30),
			p.color.Dim(FormatTime(u.RegisteredAt)))
	}

	return tw.Err()
}

// RenderSessions renders a user's sessions.
func (p *TablePresenter) RenderSessions(sessions []*SessionView) error {
	tw := p.writer()
	if len(sessions) == 0 {
		tw.println("No sessions found.")
		return tw.Err()
	}

	var total int64
	tw.printf("Sessions (%d)\n", len(sessions))
	tw.println(HorizontalLine(p.termWidth))

	for _, s := range sessions {
		total += s.Minutes
		tw.printf("%s  %s -> %s  %s  %s\n",
			p.color.Date(FormatDate(s.LoginTime)),
			FormatTimeShort(s.LoginTime),
			FormatTimeShort(s.LogoutTime),
			p.color.Number(fmt.Sprintf("%8s", FormatMinutes(s.Minutes))),
			p.color.Dim(s.ShortID))
		if p.verbose {
			tw.printf("   %s %s\n", p.color.Dim("logout"), FormatTime(s.LogoutTime))
			tw.printf("   %s %s\n", p.color.Dim("recorded"), FormatTime(s.RecordedAt))
		}
	}

	tw.println(HorizontalLine(p.termWidth))
	tw.printf("Total: %s\n", FormatMinutes(total))

	return tw.Err()
}

// RenderTotal renders a user's total activity.
func (p *TablePresenter) RenderTotal(total *TotalView) error {
	tw := p.writer()
	tw.printf("Total activity: %d minutes\n", total.TotalMinutes)
	return tw.Err()
}

// RenderUserStatus renders a user's activity status.
func (p *TablePresenter) RenderUserStatus(status *UserStatusView) error {
	tw := p.writer()
	tw.printf("%s  %s\n",
		p.color.User(status.UserID),
		renderStatusBadge(status.Status, p.color.Enabled()))
	return tw.Err()
}

// RenderLastSession renders the date of a user's latest login.
func (p *TablePresenter) RenderLastSession(last *LastSessionView) error {
	tw := p.writer()
	tw.println(last.Date)
	return tw.Err()
}

// RenderMonthly renders per-day activity as a bar chart.
func (p *TablePresenter) RenderMonthly(monthly *MonthlyView) error {
	tw := p.writer()
	tw.printf("%s\n", p.color.Header(fmt.Sprintf("Activity for %s in %s", monthly.UserID, monthly.Month)))
	tw.println(HorizontalLine(p.termWidth))

	if len(monthly.Days) == 0 {
		tw.println("No activity this month.")
		return tw.Err()
	}

	var peak int64
	for _, d := range monthly.Days {
		if d.Minutes > peak {
			peak = d.Minutes
		}
	}

	barWidth := p.termWidth - 26
	if barWidth < 10 {
		barWidth = 10
	}

	for _, d := range monthly.Days {
		tw.printf("  %s %s %s\n",
			p.color.Date(d.Date),
			renderBar(d.Minutes, peak, barWidth, p.color.Enabled()),
			p.color.Number(FormatMinutes(d.Minutes)))
	}

	tw.println(HorizontalLine(p.termWidth))
	tw.printf("Total: %s over %d days\n", FormatMinutes(monthly.TotalMinutes), len(monthly.Days))

	return tw.Err()
}

// RenderInactive renders the result of an inactivity scan.
func (p *TablePresenter) RenderInactive(inactive *InactiveView) error {
	tw := p.writer()
	if len(inactive.Users) == 0 {
		tw.printf("No users inactive for more than %d days.\n", inactive.ThresholdDays)
		return tw.Err()
	}

	tw.printf("Inactive users (%d) as of %s, threshold %d days\n",
		len(inactive.Users), FormatDate(inactive.AsOf), inactive.ThresholdDays)
	tw.println(HorizontalLine(p.termWidth))
	tw.printf("%-24s %s\n", "User ID", "Last activity")
	tw.println(HorizontalLine(p.termWidth))

	for _, u := range inactive.Users {
		last := p.color.Date(u.LastActivity)
		if u.LastActivity == activity.NeverActive {
			last = p.color.Dim(u.LastActivity)
		}
		tw.printf("%-24s %s\n", p.color.User(TruncateString(u.UserID, 24)), last)
	}

	return tw.Err()
}

// RenderSummary renders aggregated statistics for a user.
func (p *TablePresenter) RenderSummary(s *SummaryView) error {
	tw := p.writer()
	tw.printf("%s\n", p.color.Header("Activity Summary"))
	tw.println(HorizontalLine(p.termWidth))
	tw.println()

	tw.field(16, "User", fmt.Sprintf("%s (%s)", p.color.User(s.UserID), s.UserName))
	tw.field(16, "Status", renderStatusBadge(s.Status, p.color.Enabled()))
	tw.field(16, "Sessions", p.color.Number(FormatNumber(int64(s.TotalSessions))))
	tw.field(16, "Total", p.color.Number(FormatMinutes(s.TotalMinutes)))
	tw.field(16, "Longest", FormatMinutes(s.LongestMinutes))
	tw.field(16, "Active days", s.ActiveDays)
	tw.field(16, "First login", FormatTime(s.FirstLogin))
	tw.field(16, "Last login", FormatTime(s.LastLogin))

	return tw.Err()
}

// RenderDatabase renders store information.
func (p *TablePresenter) RenderDatabase(db *DatabaseView) error {
	tw := p.writer()
	tw.printf("%s\n", p.color.Header("Database"))
	tw.field(14, "Backend", db.Backend)
	if db.Location != "" {
		tw.field(14, "Location", p.color.Path(db.Location))
	}
	tw.field(14, "Users", p.color.Number(FormatNumber(int64(db.UserCount))))
	tw.field(14, "Sessions", p.color.Number(FormatNumber(int64(db.SessionCount))))
	return tw.Err()
}

// RenderConfig renders the configuration.
func (p *TablePresenter) RenderConfig(config *ConfigView) error {
	tw := p.writer()
	tw.printf("%s\n", p.color.Header("Configuration"))
	tw.printf("Location: %s\n", p.color.Path(config.Location))
	tw.println(HorizontalLine(p.termWidth))
	tw.println()

	p.renderConfigMap(tw, config.Values, "")

	return tw.Err()
}

func (p *TablePresenter) renderConfigMap(tw *tableWriter, m map[string]interface{}, prefix string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := m[key].(type) {
		case map[string]interface{}:
			p.renderConfigMap(tw, v, fullKey)
		default:
			tw.printf("  %-30s %v\n", fullKey, v)
		}
	}
}

// RenderError renders an error message.
func (p *TablePresenter) RenderError(err error) error {
	tw := p.writer()
	tw.printf("%s %s\n", p.color.Error("Error:"), err.Error())
	return tw.Err()
}

// RenderMessage renders a simple message.
func (p *TablePresenter) RenderMessage(message string) error {
	tw := p.writer()
	tw.println(message)
	return tw.Err()
}

// Ensure TablePresenter implements Presenter
var _ Presenter = (*TablePresenter)(nil)
