// Package storage provides storage interfaces and implementations for users
// and their sessions.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// UserStore defines the interface for the user directory.
type UserStore interface {
	// SaveUser registers a new user. Returns apperr.ErrAlreadyExists if the
	// ID is taken; the existing record is never overwritten.
	SaveUser(ctx context.Context, u *user.User) error

	// UserExists reports whether the ID is registered.
	UserExists(ctx context.Context, id string) (bool, error)

	// GetUser retrieves a user by ID. Returns nil if not found.
	GetUser(ctx context.Context, id string) (*user.User, error)

	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]*user.User, error)
}

// SessionStore defines the interface for per-user session histories.
type SessionStore interface {
	// SaveSession appends an already validated session to its user's history.
	SaveSession(ctx context.Context, sess *session.Session) error

	// SessionsFor returns a copy of the user's history in insertion order.
	SessionsFor(ctx context.Context, userID string) ([]*session.Session, error)

	// HasSessions reports whether the user has at least one session.
	HasSessions(ctx context.Context, userID string) (bool, error)

	// CountSessions returns the number of sessions across all users.
	CountSessions(ctx context.Context) (int, error)

	// Snapshot returns every user with their history, read atomically.
	Snapshot(ctx context.Context) ([]activity.History, error)
}

// Store combines all storage interfaces.
type Store interface {
	UserStore
	SessionStore

	// Init initializes the backing schema.
	Init(ctx context.Context) error

	// Close releases the backing resources.
	Close() error
}

// DatabaseInfo contains information about the store.
type DatabaseInfo struct {
	Backend      string
	Path         string
	UserCount    int
	SessionCount int
}

// Open creates the store for the given backend. target is the database file
// for sqlite and the server URL for redis and postgres; memory ignores it.
func Open(backend, target string, loc *time.Location) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(target, WithLocation(loc))
	case BackendRedis:
		return NewRedisStore(target, loc)
	case BackendPostgres:
		return NewPostgresStore(target, loc)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
