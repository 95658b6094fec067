// Package activity computes activity analytics from a user's session history.
package activity

import (
	"context"

	"github.com/safedep/tally/core/session"
)

// Status is a coarse classification of a user's total activity.
type Status string

const (
	StatusInactive     Status = "Inactive"
	StatusActive       Status = "Active"
	StatusHighlyActive Status = "Highly active"
)

// Thresholds in whole minutes.
const (
	activeThresholdMinutes       = 60
	highlyActiveThresholdMinutes = 120
)

// Classify maps total activity minutes to a Status.
func Classify(totalMinutes int64) Status {
	switch {
	case totalMinutes < activeThresholdMinutes:
		return StatusInactive
	case totalMinutes < highlyActiveThresholdMinutes:
		return StatusActive
	default:
		return StatusHighlyActive
	}
}

// String returns the display label.
func (s Status) String() string {
	return string(s)
}

// Source is the analytics capability the status service depends on.
type Source interface {
	// TotalActivityTime returns the user's total whole minutes of activity.
	TotalActivityTime(ctx context.Context, userID string) (int64, error)

	// SessionsFor returns a snapshot of the user's sessions.
	SessionsFor(ctx context.Context, userID string) ([]*session.Session, error)
}

// StatusService derives status and recency from a Source.
type StatusService struct {
	source Source
}

// NewStatusService creates a StatusService over src.
func NewStatusService(src Source) *StatusService {
	return &StatusService{source: src}
}

// UserStatus classifies the user's total activity.
func (s *StatusService) UserStatus(ctx context.Context, userID string) (Status, error) {
	total, err := s.source.TotalActivityTime(ctx, userID)
	if err != nil {
		return "", err
	}
	return Classify(total), nil
}

// LastSessionDate returns the calendar date of the user's chronologically
// last login. The boolean is false if the user has no sessions.
func (s *StatusService) LastSessionDate(ctx context.Context, userID string) (string, bool, error) {
	sessions, err := s.source.SessionsFor(ctx, userID)
	if err != nil {
		return "", false, err
	}

	last := session.Latest(sessions)
	if last == nil {
		return "", false, nil
	}

	return last.LoginDate(), true, nil
}
