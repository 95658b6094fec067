package tui

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVPresenter renders output as CSV.
type CSVPresenter struct {
	w      io.Writer
	writer *csv.Writer
}

// NewCSVPresenter creates a new CSV presenter.
func NewCSVPresenter(opts PresenterOptions) *CSVPresenter {
	return &CSVPresenter{
		w:      opts.Writer,
		writer: csv.NewWriter(opts.Writer),
	}
}

func (p *CSVPresenter) flush() error {
	p.writer.Flush()
	return p.writer.Error()
}

// RenderUsers renders the user directory as CSV.
func (p *CSVPresenter) RenderUsers(users []*UserView) error {
	p.writer.Write([]string{"user_id", "user_name", "registered_at"})
	for _, u := range users {
		p.writer.Write([]string{u.ID, u.Name, FormatTime(u.RegisteredAt)})
	}
	return p.flush()
}

// RenderSessions renders a user's sessions as CSV.
func (p *CSVPresenter) RenderSessions(sessions []*SessionView) error {
	p.writer.Write([]string{"id", "user_id", "login_time", "logout_time", "minutes"})
	for _, s := range sessions {
		p.writer.Write([]string{
			s.ID,
			s.UserID,
			FormatTime(s.LoginTime),
			FormatTime(s.LogoutTime),
			strconv.FormatInt(s.Minutes, 10),
		})
	}
	return p.flush()
}

// RenderTotal renders a user's total activity as CSV.
func (p *CSVPresenter) RenderTotal(total *TotalView) error {
	p.writer.Write([]string{"user_id", "total_minutes"})
	p.writer.Write([]string{total.UserID, strconv.FormatInt(total.TotalMinutes, 10)})
	return p.flush()
}

// RenderUserStatus renders a user's activity status as CSV.
func (p *CSVPresenter) RenderUserStatus(status *UserStatusView) error {
	p.writer.Write([]string{"user_id", "status"})
	p.writer.Write([]string{status.UserID, status.Status})
	return p.flush()
}

// RenderLastSession renders the date of a user's latest login as CSV.
func (p *CSVPresenter) RenderLastSession(last *LastSessionView) error {
	p.writer.Write([]string{"user_id", "date"})
	p.writer.Write([]string{last.UserID, last.Date})
	return p.flush()
}

// RenderMonthly renders per-day activity as CSV.
func (p *CSVPresenter) RenderMonthly(monthly *MonthlyView) error {
	p.writer.Write([]string{"date", "minutes"})
	for _, d := range monthly.Days {
		p.writer.Write([]string{d.Date, strconv.FormatInt(d.Minutes, 10)})
	}
	return p.flush()
}

// RenderInactive renders the scan result as CSV.
func (p *CSVPresenter) RenderInactive(inactive *InactiveView) error {
	p.writer.Write([]string{"user_id", "last_activity"})
	for _, u := range inactive.Users {
		p.writer.Write([]string{u.UserID, u.LastActivity})
	}
	return p.flush()
}

// RenderSummary renders aggregated statistics as CSV.
func (p *CSVPresenter) RenderSummary(s *SummaryView) error {
	p.writer.Write([]string{"metric", "value"})
	p.writer.Write([]string{"user_id", s.UserID})
	p.writer.Write([]string{"user_name", s.UserName})
	p.writer.Write([]string{"status", s.Status})
	p.writer.Write([]string{"total_sessions", strconv.Itoa(s.TotalSessions)})
	p.writer.Write([]string{"total_minutes", strconv.FormatInt(s.TotalMinutes, 10)})
	p.writer.Write([]string{"longest_minutes", strconv.FormatInt(s.LongestMinutes, 10)})
	p.writer.Write([]string{"active_days", strconv.Itoa(s.ActiveDays)})
	p.writer.Write([]string{"first_login", FormatTime(s.FirstLogin)})
	p.writer.Write([]string{"last_login", FormatTime(s.LastLogin)})
	return p.flush()
}

// RenderDatabase renders store information as CSV.
func (p *CSVPresenter) RenderDatabase(db *DatabaseView) error {
	p.writer.Write([]string{"metric", "value"})
	p.writer.Write([]string{"backend", db.Backend})
	p.writer.Write([]string{"location", db.Location})
	p.writer.Write([]string{"users", strconv.Itoa(db.UserCount)})
	p.writer.Write([]string{"sessions", strconv.Itoa(db.SessionCount)})
	return p.flush()
}

// RenderConfig renders the configuration as CSV.
func (p *CSVPresenter) RenderConfig(config *ConfigView) error {
	p.writer.Write([]string{"key", "value"})
	p.writeConfigMap(config.Values, "")
	return p.flush()
}

func (p *CSVPresenter) writeConfigMap(m map[string]interface{}, prefix string) {
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			p.writeConfigMap(nested, fullKey)
			continue
		}
		p.writer.Write([]string{fullKey, fmt.Sprintf("%v", value)})
	}
}

// RenderError renders an error message as CSV.
func (p *CSVPresenter) RenderError(err error) error {
	p.writer.Write([]string{"error"})
	p.writer.Write([]string{err.Error()})
	return p.flush()
}

// RenderMessage renders a simple message as CSV.
func (p *CSVPresenter) RenderMessage(message string) error {
	p.writer.Write([]string{"message"})
	p.writer.Write([]string{message})
	return p.flush()
}

// Ensure CSVPresenter implements Presenter
var _ Presenter = (*CSVPresenter)(nil)
