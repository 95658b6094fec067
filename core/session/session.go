// Package session provides the login session model and its admission rules.
package session

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Session represents one login/logout interval of a user.
type Session struct {
	// ID is assigned when the session is admitted.
	ID uuid.UUID `json:"id"`
	// UserID is the owner of the session.
	UserID string `json:"user_id"`
	// LoginTime is the start of the interval.
	LoginTime time.Time `json:"login_time"`
	// LogoutTime is the end of the interval. Always after LoginTime.
	LogoutTime time.Time `json:"logout_time"`
	// RecordedAt is when the session was admitted.
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// New creates a Session with a generated ID.
func New(userID string, login, logout time.Time) *Session {
	return &Session{
		ID:         uuid.New(),
		UserID:     userID,
		LoginTime:  login,
		LogoutTime: logout,
	}
}

// Duration returns the length of the interval.
func (s *Session) Duration() time.Duration {
	return s.LogoutTime.Sub(s.LoginTime)
}

// Minutes returns the whole minutes of the session, floored.
func (s *Session) Minutes() int64 {
	d := s.Duration()
	if d <= 0 {
		return 0
	}
	return int64(d / time.Minute)
}

// SameBounds reports whether o has identical login and logout times.
func (s *Session) SameBounds(o *Session) bool {
	return s.LoginTime.Equal(o.LoginTime) && s.LogoutTime.Equal(o.LogoutTime)
}

// LoginDate returns the calendar date of the login in YYYY-MM-DD form.
func (s *Session) LoginDate() string {
	return s.LoginTime.Format(DateLayout)
}

// SortByLogin returns a copy of sessions ordered by LoginTime ascending.
// Sessions with equal login times keep their insertion order.
func SortByLogin(sessions []*Session) []*Session {
	sorted := make([]*Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoginTime.Before(sorted[j].LoginTime)
	})
	return sorted
}

// Latest returns the session with the latest LoginTime, or nil.
func Latest(sessions []*Session) *Session {
	if len(sessions) == 0 {
		return nil
	}
	sorted := SortByLogin(sessions)
	return sorted[len(sorted)-1]
}

// Clone returns deep copies of sessions.
func Clone(sessions []*Session) []*Session {
	out := make([]*Session, len(sessions))
	for i, s := range sessions {
		c := *s
		out[i] = &c
	}
	return out
}

// SessionFilter provides filtering criteria for listing sessions.
type SessionFilter struct {
	// Since keeps sessions that logged in at or after this time.
	Since *time.Time
	// Until keeps sessions that logged in before this time.
	Until *time.Time
	// Limit is the maximum number of results. Zero means no limit.
	Limit int
}

// NewSessionFilter creates a new SessionFilter with default values.
func NewSessionFilter() *SessionFilter {
	return &SessionFilter{}
}

// WithSince sets the Since filter.
func (f *SessionFilter) WithSince(t time.Time) *SessionFilter {
	f.Since = &t
	return f
}

// WithUntil sets the Until filter.
func (f *SessionFilter) WithUntil(t time.Time) *SessionFilter {
	f.Until = &t
	return f
}

// WithLimit sets the Limit.
func (f *SessionFilter) WithLimit(limit int) *SessionFilter {
	f.Limit = limit
	return f
}

// Apply returns the sessions matching the filter ordered by login time.
func (f *SessionFilter) Apply(sessions []*Session) []*Session {
	var out []*Session
	for _, s := range SortByLogin(sessions) {
		if f.Since != nil && s.LoginTime.Before(*f.Since) {
			continue
		}
		if f.Until != nil && !s.LoginTime.Before(*f.Until) {
			continue
		}
		out = append(out, s)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
