package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"
)

// MemoryStore implements Store with in-process maps. Its contents live as
// long as the process.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*user.User
	sessions map[string][]*session.Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*user.User),
		sessions: make(map[string][]*session.Session),
	}
}

// Init is a no-op.
func (s *MemoryStore) Init(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// SaveUser registers a new user.
func (s *MemoryStore) SaveUser(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return apperr.AlreadyExists()
	}

	c := *u
	s.users[u.ID] = &c
	return nil
}

// UserExists reports whether the ID is registered.
func (s *MemoryStore) UserExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok, nil
}

// GetUser retrieves a user by ID.
func (s *MemoryStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// ListUsers returns all users ordered by ID.
func (s *MemoryStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listUsersLocked(), nil
}

func (s *MemoryStore) listUsersLocked() []*user.User {
	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SaveSession appends the session to its user's history.
func (s *MemoryStore) SaveSession(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *sess
	s.sessions[sess.UserID] = append(s.sessions[sess.UserID], &c)
	return nil
}

// SessionsFor returns a copy of the user's history.
func (s *MemoryStore) SessionsFor(ctx context.Context, userID string) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return session.Clone(s.sessions[userID]), nil
}

// HasSessions reports whether the user has at least one session.
func (s *MemoryStore) HasSessions(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions[userID]) > 0, nil
}

// CountSessions returns the number of sessions across all users.
func (s *MemoryStore) CountSessions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, h := range s.sessions {
		n += len(h)
	}
	return n, nil
}

// Snapshot returns every user with a copy of their history.
func (s *MemoryStore) Snapshot(ctx context.Context) ([]activity.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.listUsersLocked()
	out := make([]activity.History, len(users))
	for i, u := range users {
		out[i] = activity.History{
			User:     u,
			Sessions: session.Clone(s.sessions[u.ID]),
		}
	}
	return out, nil
}
