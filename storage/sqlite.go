package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	registered_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id),
	login_at    TEXT NOT NULL,
	logout_at   TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_bounds
	ON sessions(user_id, login_at, logout_at);
`

// SQLiteStore implements Store using SQLite via database/sql.
// Timestamps are stored as UTC text and read back in the store's location.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	location *time.Location
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithLocation sets the location timestamps are read back in.
func WithLocation(loc *time.Location) SQLiteOption {
	return func(s *SQLiteStore) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewSQLiteStore creates a new SQLite store at the given path.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite",
		fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps uniqueness checks
	// from racing inside one process.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:       db,
		path:     path,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Init initializes the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// SaveUser registers a new user.
func (s *SQLiteStore) SaveUser(ctx context.Context, u *user.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, registered_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		u.ID, u.Name, encodeTime(u.RegisteredAt))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return requireInserted(res, apperr.AlreadyExists())
}

// UserExists reports whether the ID is registered.
func (s *SQLiteStore) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return n > 0, nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	var name, registered string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, registered_at FROM users WHERE id = ?`, id).Scan(&name, &registered)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	at, err := decodeTime(registered, s.location)
	if err != nil {
		return nil, err
	}
	return user.New(id, name, at), nil
}

// ListUsers returns all users ordered by ID.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.listUsers(ctx, s.db)
}

// SaveSession appends the session to its user's history. The unique index
// on the session bounds rejects a duplicate admitted by another process.
func (s *SQLiteStore) SaveSession(ctx context.Context, sess *session.Session) error {
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, login_at, logout_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, login_at, logout_at) DO NOTHING`,
		sess.ID.String(), sess.UserID,
		encodeTime(sess.LoginTime), encodeTime(sess.LogoutTime),
		encodeTime(sess.RecordedAt))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return requireInserted(res, apperr.DuplicateSession())
}

// SessionsFor returns the user's history in insertion order.
func (s *SQLiteStore) SessionsFor(ctx context.Context, userID string) ([]*session.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, login_at, logout_at, recorded_at
		 FROM sessions WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows, s.location)
}

// HasSessions reports whether the user has at least one session.
func (s *SQLiteStore) HasSessions(ctx context.Context, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM sessions WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n > 0, nil
}

// CountSessions returns the number of sessions across all users.
func (s *SQLiteStore) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// Snapshot returns every user with their history, read in one transaction.
func (s *SQLiteStore) Snapshot(ctx context.Context) ([]activity.History, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	users, err := s.listUsers(ctx, tx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, login_at, logout_at, recorded_at
		 FROM sessions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	all, err := scanSessions(rows, s.location)
	if err != nil {
		return nil, err
	}

	return groupHistories(users, all), tx.Commit()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLiteStore) listUsers(ctx context.Context, q queryer) ([]*user.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, registered_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows, s.location)
}

func scanUsers(rows *sql.Rows, loc *time.Location) ([]*user.User, error) {
	var out []*user.User
	for rows.Next() {
		var id, name, registered string
		if err := rows.Scan(&id, &name, &registered); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		at, err := decodeTime(registered, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, user.New(id, name, at))
	}

	return out, rows.Err()
}

func scanSessions(rows *sql.Rows, loc *time.Location) ([]*session.Session, error) {
	var out []*session.Session
	for rows.Next() {
		var id, userID, login, logout, recorded string
		if err := rows.Scan(&id, &userID, &login, &logout, &recorded); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		sess, err := decodeSession(id, userID, login, logout, recorded, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}

	return out, rows.Err()
}

// decodeSession rebuilds a session from its stored fields.
func decodeSession(id, userID, login, logout, recorded string, loc *time.Location) (*session.Session, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}

	sess := &session.Session{ID: sid, UserID: userID}
	for _, f := range []struct {
		raw string
		dst *time.Time
	}{
		{login, &sess.LoginTime},
		{logout, &sess.LogoutTime},
		{recorded, &sess.RecordedAt},
	} {
		if *f.dst, err = decodeTime(f.raw, loc); err != nil {
			return nil, err
		}
	}

	return sess, nil
}
