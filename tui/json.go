package tui

import (
	"encoding/json"
	"io"
)

// JSONPresenter renders output as JSON.
type JSONPresenter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter.
func NewJSONPresenter(opts PresenterOptions) *JSONPresenter {
	encoder := json.NewEncoder(opts.Writer)
	encoder.SetIndent("", "  ")
	return &JSONPresenter{
		w:       opts.Writer,
		encoder: encoder,
	}
}

// RenderUsers renders the user directory as JSON.
func (p *JSONPresenter) RenderUsers(users []*UserView) error {
	if users == nil {
		users = []*UserView{}
	}
	return p.encoder.Encode(users)
}

// RenderSessions renders a user's sessions as JSON.
func (p *JSONPresenter) RenderSessions(sessions []*SessionView) error {
	if sessions == nil {
		sessions = []*SessionView{}
	}
	return p.encoder.Encode(sessions)
}

// RenderTotal renders a user's total activity as JSON.
func (p *JSONPresenter) RenderTotal(total *TotalView) error {
	return p.encoder.Encode(total)
}

// RenderUserStatus renders a user's activity status as JSON.
func (p *JSONPresenter) RenderUserStatus(status *UserStatusView) error {
	return p.encoder.Encode(status)
}

// RenderLastSession renders the date of a user's latest login as JSON.
func (p *JSONPresenter) RenderLastSession(last *LastSessionView) error {
	return p.encoder.Encode(last)
}

// RenderMonthly renders per-day activity as a JSON object keyed by date.
func (p *JSONPresenter) RenderMonthly(monthly *MonthlyView) error {
	days := make(map[string]int64, len(monthly.Days))
	for _, d := range monthly.Days {
		days[d.Date] = d.Minutes
	}
	return p.encoder.Encode(days)
}

// RenderInactive renders the scan result as a JSON object keyed by user ID.
func (p *JSONPresenter) RenderInactive(inactive *InactiveView) error {
	users := make(map[string]string, len(inactive.Users))
	for _, u := range inactive.Users {
		users[u.UserID] = u.LastActivity
	}
	return p.encoder.Encode(users)
}

// RenderSummary renders aggregated statistics as JSON.
func (p *JSONPresenter) RenderSummary(summary *SummaryView) error {
	return p.encoder.Encode(summary)
}

// RenderDatabase renders store information as JSON.
func (p *JSONPresenter) RenderDatabase(db *DatabaseView) error {
	return p.encoder.Encode(db)
}

// RenderConfig renders the configuration as JSON.
func (p *JSONPresenter) RenderConfig(config *ConfigView) error {
	return p.encoder.Encode(config)
}

// RenderError renders an error message as JSON.
func (p *JSONPresenter) RenderError(err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return p.encoder.Encode(output)
}

// RenderMessage renders a simple message as JSON.
func (p *JSONPresenter) RenderMessage(message string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: message,
	}
	return p.encoder.Encode(output)
}

// Ensure JSONPresenter implements Presenter
var _ Presenter = (*JSONPresenter)(nil)
