package activity

import (
	"time"

	"github.com/safedep/tally/core/session"
)

// Summary provides aggregated statistics about a user's sessions.
type Summary struct {
	// UserID is the owner of the sessions.
	UserID string `json:"user_id"`
	// TotalSessions is the number of recorded sessions.
	TotalSessions int `json:"total_sessions"`
	// TotalMinutes is the sum of whole minutes across sessions.
	TotalMinutes int64 `json:"total_minutes"`
	// LongestMinutes is the whole-minute length of the longest session.
	LongestMinutes int64 `json:"longest_minutes"`
	// Status classifies TotalMinutes.
	Status Status `json:"status"`
	// FirstLogin is the earliest login time.
	FirstLogin time.Time `json:"first_login,omitempty"`
	// LastLogin is the latest login time.
	LastLogin time.Time `json:"last_login,omitempty"`
	// ActiveDays is the number of distinct login dates.
	ActiveDays int `json:"active_days"`
}

// NewSummary creates an empty Summary for the user.
func NewSummary(userID string) *Summary {
	return &Summary{
		UserID: userID,
		Status: StatusInactive,
	}
}

// AddSession updates the summary with one session.
func (s *Summary) AddSession(sess *session.Session) {
	s.TotalSessions++

	minutes := sess.Minutes()
	s.TotalMinutes += minutes
	if minutes > s.LongestMinutes {
		s.LongestMinutes = minutes
	}

	if s.FirstLogin.IsZero() || sess.LoginTime.Before(s.FirstLogin) {
		s.FirstLogin = sess.LoginTime
	}
	if s.LastLogin.IsZero() || sess.LoginTime.After(s.LastLogin) {
		s.LastLogin = sess.LoginTime
	}

	s.Status = Classify(s.TotalMinutes)
}

// Summarize aggregates sessions into a Summary.
func Summarize(userID string, sessions []*session.Session) *Summary {
	s := NewSummary(userID)
	days := make(map[string]struct{})
	for _, sess := range sessions {
		s.AddSession(sess)
		days[sess.LoginDate()] = struct{}{}
	}
	s.ActiveDays = len(days)
	return s
}
