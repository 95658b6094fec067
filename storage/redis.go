package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/core/user"
)

const (
	redisKeyPrefix  = "tally:"
	redisTxAttempts = 16
)

// RedisStore implements Store on Redis. Users live in one hash; each user's
// history is a list in insertion order, backed by a set of session bounds
// that rejects duplicates.
type RedisStore struct {
	rdb      *redis.Client
	prefix   string
	location *time.Location
}

type redisUser struct {
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
}

type redisSession struct {
	ID         string `json:"id"`
	LoginAt    string `json:"login_at"`
	LogoutAt   string `json:"logout_at"`
	RecordedAt string `json:"recorded_at"`
}

// NewRedisStore creates a store over the Redis server at url
// (redis://host:port/db).
func NewRedisStore(url string, loc *time.Location) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStoreWithClient(redis.NewClient(opts), loc), nil
}

// NewRedisStoreWithClient creates a store over an existing client. The store
// takes ownership of the client.
func NewRedisStoreWithClient(rdb *redis.Client, loc *time.Location) *RedisStore {
	if loc == nil {
		loc = time.Local
	}
	return &RedisStore{rdb: rdb, prefix: redisKeyPrefix, location: loc}
}

func (s *RedisStore) usersKey() string {
	return s.prefix + "users"
}

func (s *RedisStore) sessionsKey(userID string) string {
	return s.prefix + "sessions:" + userID
}

func (s *RedisStore) boundsSetKey(userID string) string {
	return s.prefix + "bounds:" + userID
}

// Init checks that the server is reachable.
func (s *RedisStore) Init(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// SaveUser registers a new user.
func (s *RedisStore) SaveUser(ctx context.Context, u *user.User) error {
	payload, err := json.Marshal(redisUser{Name: u.Name, RegisteredAt: encodeTime(u.RegisteredAt)})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	ok, err := s.rdb.HSetNX(ctx, s.usersKey(), u.ID, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if !ok {
		return apperr.AlreadyExists()
	}
	return nil
}

// UserExists reports whether the ID is registered.
func (s *RedisStore) UserExists(ctx context.Context, id string) (bool, error) {
	ok, err := s.rdb.HExists(ctx, s.usersKey(), id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return ok, nil
}

// GetUser retrieves a user by ID.
func (s *RedisStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	payload, err := s.rdb.HGet(ctx, s.usersKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.decodeUser(id, payload)
}

// ListUsers returns all users ordered by ID.
func (s *RedisStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	all, err := s.rdb.HGetAll(ctx, s.usersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return s.decodeUsers(all)
}

// SaveSession appends the session to its user's history. The bounds set is
// watched so that a concurrent writer with the same bounds loses.
func (s *RedisStore) SaveSession(ctx context.Context, sess *session.Session) error {
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}

	payload, err := json.Marshal(redisSession{
		ID:         sess.ID.String(),
		LoginAt:    encodeTime(sess.LoginTime),
		LogoutAt:   encodeTime(sess.LogoutTime),
		RecordedAt: encodeTime(sess.RecordedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	bounds := boundsKey(sess.LoginTime, sess.LogoutTime)
	setKey := s.boundsSetKey(sess.UserID)

	for i := 0; i < redisTxAttempts; i++ {
		err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			seen, err := tx.SIsMember(ctx, setKey, bounds).Result()
			if err != nil {
				return err
			}
			if seen {
				return apperr.DuplicateSession()
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SAdd(ctx, setKey, bounds)
				pipe.RPush(ctx, s.sessionsKey(sess.UserID), payload)
				return nil
			})
			return err
		}, setKey)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if apperr.IsExpected(err) {
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to save session: %w", err)
}

// SessionsFor returns the user's history in insertion order.
func (s *RedisStore) SessionsFor(ctx context.Context, userID string) ([]*session.Session, error) {
	raw, err := s.rdb.LRange(ctx, s.sessionsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	return s.decodeSessions(userID, raw)
}

// HasSessions reports whether the user has at least one session.
func (s *RedisStore) HasSessions(ctx context.Context, userID string) (bool, error) {
	n, err := s.rdb.LLen(ctx, s.sessionsKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n > 0, nil
}

// CountSessions returns the number of sessions across all users.
func (s *RedisStore) CountSessions(ctx context.Context) (int, error) {
	ids, err := s.rdb.HKeys(ctx, s.usersKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to query users: %w", err)
	}

	cmds := make([]*redis.IntCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.LLen(ctx, s.sessionsKey(id))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	total := 0
	for _, cmd := range cmds {
		total += int(cmd.Val())
	}
	return total, nil
}

// Snapshot returns every user with their history. The histories are read in
// one MULTI block; a registration racing the read restarts it.
func (s *RedisStore) Snapshot(ctx context.Context) ([]activity.History, error) {
	var (
		out []activity.History
		err error
	)

	for i := 0; i < redisTxAttempts; i++ {
		err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			all, err := tx.HGetAll(ctx, s.usersKey()).Result()
			if err != nil {
				return err
			}
			users, err := s.decodeUsers(all)
			if err != nil {
				return err
			}

			cmds := make([]*redis.StringSliceCmd, len(users))
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for j, u := range users {
					cmds[j] = pipe.LRange(ctx, s.sessionsKey(u.ID), 0, -1)
				}
				return nil
			})
			if err != nil {
				return err
			}

			out = make([]activity.History, len(users))
			for j, u := range users {
				sessions, err := s.decodeSessions(u.ID, cmds[j].Val())
				if err != nil {
					return err
				}
				out[j] = activity.History{User: u, Sessions: sessions}
			}
			return nil
		}, s.usersKey())

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("failed to read snapshot: %w", err)
}

func (s *RedisStore) decodeUser(id string, payload []byte) (*user.User, error) {
	var ru redisUser
	if err := json.Unmarshal(payload, &ru); err != nil {
		return nil, fmt.Errorf("invalid user record %q: %w", id, err)
	}
	at, err := decodeTime(ru.RegisteredAt, s.location)
	if err != nil {
		return nil, err
	}
	return user.New(id, ru.Name, at), nil
}

func (s *RedisStore) decodeUsers(all map[string]string) ([]*user.User, error) {
	out := make([]*user.User, 0, len(all))
	for id, payload := range all {
		u, err := s.decodeUser(id, []byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) decodeSessions(userID string, raw []string) ([]*session.Session, error) {
	out := make([]*session.Session, 0, len(raw))
	for _, payload := range raw {
		var rs redisSession
		if err := json.Unmarshal([]byte(payload), &rs); err != nil {
			return nil, fmt.Errorf("invalid session record for %q: %w", userID, err)
		}

		sess, err := decodeSession(rs.ID, userID, rs.LoginAt, rs.LogoutAt, rs.RecordedAt, s.location)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}
