package activity

import (
	"fmt"
	"time"

	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"
)

// NeverActive describes a user who has no recorded session.
const NeverActive = "No sessions found"

// TotalMinutes sums the floored whole minutes of each session.
// Each session is floored on its own before summing.
func TotalMinutes(sessions []*session.Session) int64 {
	var total int64
	for _, s := range sessions {
		total += s.Minutes()
	}
	return total
}

// DailyActivity maps a YYYY-MM-DD login date to whole minutes.
type DailyActivity map[string]int64

// YearMonth is a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a YYYY-MM value. Months outside 01..12 are rejected.
func ParseYearMonth(value string) (YearMonth, error) {
	t, err := time.Parse(session.MonthLayout, value)
	if err != nil {
		return YearMonth{}, fmt.Errorf("Text '%s' could not be parsed: %w", value, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Contains reports whether t falls in the month, in t's own location.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// String returns the YYYY-MM form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MonthlyActivity accumulates whole minutes per login date for the sessions
// whose login falls in ym. The result is empty, never nil, when no session
// matches.
func MonthlyActivity(sessions []*session.Session, ym YearMonth) DailyActivity {
	out := make(DailyActivity)
	for _, s := range sessions {
		if !ym.Contains(s.LoginTime) {
			continue
		}
		out[s.LoginDate()] += s.Minutes()
	}
	return out
}

// History is one registered user with a snapshot of their sessions.
type History struct {
	User     *user.User
	Sessions []*session.Session
}

// InactiveUsers returns the users whose latest login precedes
// asOf minus thresholdDays, plus every user without sessions. Values
// describe the last activity: the latest login date or NeverActive.
func InactiveUsers(histories []History, thresholdDays int, asOf time.Time) map[string]string {
	cutoff := asOf.AddDate(0, 0, -thresholdDays)

	out := make(map[string]string)
	for _, h := range histories {
		latest := session.Latest(h.Sessions)
		if latest == nil {
			out[h.User.ID] = NeverActive
			continue
		}
		if latest.LoginTime.Before(cutoff) {
			out[h.User.ID] = latest.LoginDate()
		}
	}
	return out
}
