package tui

import (
	"sort"
	"time"

	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"
)

// UserView represents a registered user for display.
type UserView struct {
	ID           string    `json:"user_id"`
	Name         string    `json:"user_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewUserViews converts users for display.
func NewUserViews(users []*user.User) []*UserView {
	out := make([]*UserView, len(users))
	for i, u := range users {
		out[i] = &UserView{ID: u.ID, Name: u.Name, RegisteredAt: u.RegisteredAt}
	}
	return out
}

// SessionView represents a session for display.
type SessionView struct {
	ID         string    `json:"id"`
	ShortID    string    `json:"-"`
	UserID     string    `json:"user_id"`
	LoginTime  time.Time `json:"login_time"`
	LogoutTime time.Time `json:"logout_time"`
	Minutes    int64     `json:"minutes"`
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// NewSessionView converts a session for display.
func NewSessionView(s *session.Session) *SessionView {
	id := s.ID.String()
	return &SessionView{
		ID:         id,
		ShortID:    FormatShortID(id),
		UserID:     s.UserID,
		LoginTime:  s.LoginTime,
		LogoutTime: s.LogoutTime,
		Minutes:    s.Minutes(),
		RecordedAt: s.RecordedAt,
	}
}

// NewSessionViews converts sessions for display, keeping their order.
func NewSessionViews(sessions []*session.Session) []*SessionView {
	out := make([]*SessionView, len(sessions))
	for i, s := range sessions {
		out[i] = NewSessionView(s)
	}
	return out
}

// TotalView is a user's total activity.
type TotalView struct {
	UserID       string `json:"user_id"`
	TotalMinutes int64  `json:"total_minutes"`
}

// UserStatusView is a user's activity classification.
type UserStatusView struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// LastSessionView is the date of a user's latest login.
type LastSessionView struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

// DayView is the activity of one calendar day.
type DayView struct {
	Date    string `json:"date"`
	Minutes int64  `json:"minutes"`
}

// MonthlyView is per-day activity for one month.
type MonthlyView struct {
	UserID       string     `json:"user_id"`
	Month        string     `json:"month"`
	Days         []*DayView `json:"days"`
	TotalMinutes int64      `json:"total_minutes"`
}

// NewMonthlyView converts a daily breakdown for display, ordered by date.
func NewMonthlyView(userID, month string, daily activity.DailyActivity) *MonthlyView {
	v := &MonthlyView{UserID: userID, Month: month, Days: make([]*DayView, 0, len(daily))}
	for date, minutes := range daily {
		v.Days = append(v.Days, &DayView{Date: date, Minutes: minutes})
		v.TotalMinutes += minutes
	}
	sort.Slice(v.Days, func(i, j int) bool { return v.Days[i].Date < v.Days[j].Date })
	return v
}

// InactiveUserView is one user found by an inactivity scan.
type InactiveUserView struct {
	UserID       string `json:"user_id"`
	LastActivity string `json:"last_activity"`
}

// InactiveView is the result of an inactivity scan.
type InactiveView struct {
	ThresholdDays int                 `json:"threshold_days"`
	AsOf          time.Time           `json:"as_of"`
	Users         []*InactiveUserView `json:"users"`
}

// NewInactiveView converts a scan result for display, ordered by user ID.
func NewInactiveView(days int, asOf time.Time, inactive map[string]string) *InactiveView {
	v := &InactiveView{ThresholdDays: days, AsOf: asOf, Users: make([]*InactiveUserView, 0, len(inactive))}
	for id, last := range inactive {
		v.Users = append(v.Users, &InactiveUserView{UserID: id, LastActivity: last})
	}
	sort.Slice(v.Users, func(i, j int) bool { return v.Users[i].UserID < v.Users[j].UserID })
	return v
}

// SummaryView is aggregated statistics for a user.
type SummaryView struct {
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name"`
	TotalSessions  int       `json:"total_sessions"`
	TotalMinutes   int64     `json:"total_minutes"`
	LongestMinutes int64     `json:"longest_minutes"`
	ActiveDays     int       `json:"active_days"`
	Status         string    `json:"status"`
	FirstLogin     time.Time `json:"first_login,omitempty"`
	LastLogin      time.Time `json:"last_login,omitempty"`
}

// NewSummaryView converts a summary for display.
func NewSummaryView(u *user.User, s *activity.Summary) *SummaryView {
	return &SummaryView{
		UserID:         u.ID,
		UserName:       u.Name,
		TotalSessions:  s.TotalSessions,
		TotalMinutes:   s.TotalMinutes,
		LongestMinutes: s.LongestMinutes,
		ActiveDays:     s.ActiveDays,
		Status:         s.Status.String(),
		FirstLogin:     s.FirstLogin,
		LastLogin:      s.LastLogin,
	}
}

// DatabaseView represents store information.
type DatabaseView struct {
	Backend      string `json:"backend"`
	Location     string `json:"location,omitempty"`
	UserCount    int    `json:"user_count"`
	SessionCount int    `json:"session_count"`
}

// ConfigView represents configuration for display.
type ConfigView struct {
	Location string                 `json:"location"`
	Values   map[string]interface{} `json:"values"`
}
