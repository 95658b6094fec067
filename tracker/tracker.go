// Package tracker provides the session tracking engine. A Tracker owns a
// user directory and session store and is the only writer to them.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/clock"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"
	"github.com/safedep/tally/storage"
)

// Tracker registers users, admits sessions and answers analytics queries.
//
// Registration and session admission run under a per-user lock so that
// concurrent requests for the same user ID see each other's effects.
// Requests for different users do not contend.
type Tracker struct {
	store     storage.Store
	clock     clock.Clock
	validator *session.Validator
	status    *activity.StatusService
	locks     *userLocks
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	clock    clock.Clock
	location *time.Location
}

// WithClock sets the time source used for validation and inactivity scans.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLocation sets the location timestamps are parsed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// New creates a Tracker over store.
func New(store storage.Store, opts ...Option) *Tracker {
	o := options{location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	if o.location == nil {
		o.location = time.Local
	}
	if o.clock == nil {
		o.clock = clock.NewSystem(o.location)
	}

	t := &Tracker{
		store:     store,
		clock:     o.clock,
		validator: session.NewValidator(o.clock, o.location),
		locks:     newUserLocks(),
	}
	t.status = activity.NewStatusService(t)

	return t
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Register adds a user to the directory. A second registration of the same
// ID fails with apperr.ErrAlreadyExists whatever the name.
func (t *Tracker) Register(ctx context.Context, userID, userName string) error {
	if userID == "" || userName == "" {
		return apperr.MissingParameter(apperr.MsgMissingParameters)
	}

	unlock := t.locks.lock(userID)
	defer unlock()

	return t.store.SaveUser(ctx, user.New(userID, userName, t.clock.Now()))
}

// UserExists reports whether the user is registered.
func (t *Tracker) UserExists(ctx context.Context, userID string) (bool, error) {
	return t.store.UserExists(ctx, userID)
}

// GetUser returns the user, or apperr.ErrUserNotFound.
func (t *Tracker) GetUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := t.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.UserNotFound()
	}
	return u, nil
}

// ListUsers returns all registered users ordered by ID.
func (t *Tracker) ListUsers(ctx context.Context) ([]*user.User, error) {
	return t.store.ListUsers(ctx)
}

// RecordSession validates the candidate and, if admissible, appends it to
// the user's history. Validation and the write happen under the user's lock.
func (t *Tracker) RecordSession(ctx context.Context, c session.Candidate) (*session.Session, error) {
	if c.UserID == "" || c.LoginTime == "" || c.LogoutTime == "" {
		return nil, apperr.MissingParameter(apperr.MsgMissingParameters)
	}

	unlock := t.locks.lock(c.UserID)
	defer unlock()

	exists, err := t.store.UserExists(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	var history []*session.Session
	if exists {
		history, err = t.store.SessionsFor(ctx, c.UserID)
		if err != nil {
			return nil, err
		}
	}

	sess, err := t.validator.Validate(c, exists, history)
	if err != nil {
		return nil, err
	}

	sess.RecordedAt = t.clock.Now()
	if err := t.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// SessionsFor returns a snapshot of the user's sessions in insertion order.
func (t *Tracker) SessionsFor(ctx context.Context, userID string) ([]*session.Session, error) {
	if err := t.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return t.store.SessionsFor(ctx, userID)
}

// TotalActivityTime returns the user's total whole minutes of activity.
// A registered user without sessions fails with apperr.ErrNoSessionsFound.
func (t *Tracker) TotalActivityTime(ctx context.Context, userID string) (int64, error) {
	sessions, err := t.SessionsFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(sessions) == 0 {
		return 0, apperr.NoSessionsFound()
	}
	return activity.TotalMinutes(sessions), nil
}

// UserStatus classifies the user's total activity.
func (t *Tracker) UserStatus(ctx context.Context, userID string) (activity.Status, error) {
	return t.status.UserStatus(ctx, userID)
}

// LastSessionDate returns the calendar date of the user's latest login.
func (t *Tracker) LastSessionDate(ctx context.Context, userID string) (string, bool, error) {
	return t.status.LastSessionDate(ctx, userID)
}

// InactiveUsers scans every registered user against a trailing window of
// thresholdDays ending at asOf. A zero asOf means now.
func (t *Tracker) InactiveUsers(ctx context.Context, thresholdDays int, asOf time.Time) (map[string]string, error) {
	if thresholdDays < 0 {
		return nil, apperr.InvalidNumberFormat(fmt.Errorf("negative day count: %d", thresholdDays))
	}
	if asOf.IsZero() {
		asOf = t.clock.Now()
	}

	histories, err := t.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return activity.InactiveUsers(histories, thresholdDays, asOf), nil
}

// MonthlyActivity returns per-day minutes for the sessions whose login falls
// in month (YYYY-MM). A malformed month fails with apperr.ErrMalformedInput;
// a user without any session fails with apperr.ErrNoSessionsFound. A user
// with sessions, none of them in month, gets an empty result.
func (t *Tracker) MonthlyActivity(ctx context.Context, userID, month string) (activity.DailyActivity, error) {
	ym, err := activity.ParseYearMonth(month)
	if err != nil {
		return nil, apperr.MalformedInput(err)
	}

	sessions, err := t.SessionsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperr.NoSessionsFound()
	}

	return activity.MonthlyActivity(sessions, ym), nil
}

// Summary aggregates the user's sessions.
func (t *Tracker) Summary(ctx context.Context, userID string) (*activity.Summary, error) {
	sessions, err := t.SessionsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return activity.Summarize(userID, sessions), nil
}

// Info returns counts about the underlying store.
func (t *Tracker) Info(ctx context.Context) (*storage.DatabaseInfo, error) {
	users, err := t.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	count, err := t.store.CountSessions(ctx)
	if err != nil {
		return nil, err
	}
	return &storage.DatabaseInfo{UserCount: len(users), SessionCount: count}, nil
}

func (t *Tracker) requireUser(ctx context.Context, userID string) error {
	exists, err := t.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.UserNotFound()
	}
	return nil
}
