package session

import (
	"time"

	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/clock"
)

// Candidate is a session submitted for admission, with unparsed bounds.
type Candidate struct {
	UserID     string
	LoginTime  string
	LogoutTime string
}

// Validator decides whether a candidate session may be admitted.
// It holds no state besides its clock and location.
type Validator struct {
	clock    clock.Clock
	location *time.Location
}

// NewValidator creates a Validator. Timestamps are parsed in loc.
func NewValidator(c clock.Clock, loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return &Validator{clock: c, location: loc}
}

// Validate checks the candidate against the user's existence and existing
// history. Checks run in a fixed order and the first failure is returned:
// unknown user, malformed timestamps, login in the future, empty or
// inverted interval, duplicate bounds.
func (v *Validator) Validate(c Candidate, userExists bool, history []*Session) (*Session, error) {
	if !userExists {
		return nil, apperr.UserNotFound()
	}

	login, err := ParseTimestamp(c.LoginTime, v.location)
	if err != nil {
		return nil, apperr.MalformedInput(err)
	}

	logout, err := ParseTimestamp(c.LogoutTime, v.location)
	if err != nil {
		return nil, apperr.MalformedInput(err)
	}

	if login.After(v.clock.Now()) {
		return nil, apperr.FutureLogin()
	}

	if !login.Before(logout) {
		return nil, apperr.LogoutBeforeLogin()
	}

	sess := New(c.UserID, login, logout)
	for _, existing := range history {
		if existing.SameBounds(sess) {
			return nil, apperr.DuplicateSession()
		}
	}

	return sess, nil
}
