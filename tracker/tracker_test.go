package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/safedep/tally/core/activity"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/clock"
	"github.com/safedep/tally/core/session"
	"github.com/safedep/tally/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	return New(storage.NewMemoryStore(),
		WithClock(clock.Fixed(testNow)),
		WithLocation(time.UTC))
}

func record(t *testing.T, tr *Tracker, userID, login, logout string) {
	t.Helper()
	_, err := tr.RecordSession(context.Background(), session.Candidate{
		UserID:     userID,
		LoginTime:  login,
		LogoutTime: logout,
	})
	require.NoError(t, err)
}

func TestTracker_Register(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	require.NoError(t, tr.Register(ctx, "u1", "Alice"))

	err := tr.Register(ctx, "u1", "Bob")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	u, err := tr.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, testNow, u.RegisteredAt)

	err = tr.Register(ctx, "", "Nobody")
	assert.ErrorIs(t, err, apperr.ErrMissingParameter)
	assert.Equal(t, apperr.MsgMissingParameters, err.Error())
}

func TestTracker_GetUser_Unknown(t *testing.T) {
	_, err := newTestTracker(t).GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestTracker_RecordSession(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "u1", "Alice"))

	sess, err := tr.RecordSession(ctx, session.Candidate{
		UserID:     "u1",
		LoginTime:  "2024-03-01T10:00:00",
		LogoutTime: "2024-03-01T11:00:00",
	})
	require.NoError(t, err)
	assert.Equal(t, testNow, sess.RecordedAt)

	_, err = tr.RecordSession(ctx, session.Candidate{
		UserID:     "u1",
		LoginTime:  "2024-03-01T10:00:00",
		LogoutTime: "2024-03-01T11:00:00",
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicateSession)

	_, err = tr.RecordSession(ctx, session.Candidate{
		UserID:     "ghost",
		LoginTime:  "2024-03-01T10:00:00",
		LogoutTime: "2024-03-01T11:00:00",
	})
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)

	_, err = tr.RecordSession(ctx, session.Candidate{UserID: "u1", LoginTime: "2024-03-01T10:00:00"})
	assert.ErrorIs(t, err, apperr.ErrMissingParameter)

	sessions, err := tr.SessionsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestTracker_TotalActivityTime(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "u1", "Alice"))

	_, err := tr.TotalActivityTime(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNoSessionsFound)

	_, err = tr.TotalActivityTime(ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)

	record(t, tr, "u1", "2024-03-01T10:00:00", "2024-03-01T11:00:00")
	record(t, tr, "u1", "2024-03-02T10:00:00", "2024-03-02T10:30:59")

	total, err := tr.TotalActivityTime(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(90), total)
}

func TestTracker_UserStatusAndLastSession(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "u1", "Alice"))

	record(t, tr, "u1", "2024-03-05T10:00:00", "2024-03-05T11:00:00")
	record(t, tr, "u1", "2024-03-01T10:00:00", "2024-03-01T11:30:00")

	status, err := tr.UserStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, activity.StatusHighlyActive, status)

	date, ok, err := tr.LastSessionDate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", date)
}

func TestTracker_InactiveUsers(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "active", "A"))
	require.NoError(t, tr.Register(ctx, "stale", "S"))
	require.NoError(t, tr.Register(ctx, "never", "N"))

	record(t, tr, "active", "2024-03-25T10:00:00", "2024-03-25T11:00:00")
	record(t, tr, "stale", "2024-01-10T10:00:00", "2024-01-10T11:00:00")

	got, err := tr.InactiveUsers(ctx, 30, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"stale": "2024-01-10",
		"never": activity.NeverActive,
	}, got)

	_, err = tr.InactiveUsers(ctx, -1, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrInvalidNumberFormat)
}

func TestTracker_MonthlyActivity(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "u1", "Alice"))
	require.NoError(t, tr.Register(ctx, "empty", "Empty"))

	record(t, tr, "u1", "2024-03-01T10:00:00", "2024-03-01T11:00:00")
	record(t, tr, "u1", "2024-03-01T12:00:00", "2024-03-01T12:15:00")

	got, err := tr.MonthlyActivity(ctx, "u1", "2024-03")
	require.NoError(t, err)
	assert.Equal(t, activity.DailyActivity{"2024-03-01": 75}, got)

	got, err = tr.MonthlyActivity(ctx, "u1", "2024-02")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = tr.MonthlyActivity(ctx, "u1", "2023-13")
	assert.ErrorIs(t, err, apperr.ErrMalformedInput)

	_, err = tr.MonthlyActivity(ctx, "empty", "2024-03")
	assert.ErrorIs(t, err, apperr.ErrNoSessionsFound)

	_, err = tr.MonthlyActivity(ctx, "ghost", "2024-03")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestTracker_SummaryAndInfo(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "u1", "Alice"))
	require.NoError(t, tr.Register(ctx, "u2", "Bob"))
	record(t, tr, "u1", "2024-03-01T10:00:00", "2024-03-01T10:45:00")

	summary, err := tr.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalSessions)
	assert.Equal(t, int64(45), summary.TotalMinutes)
	assert.Equal(t, activity.StatusInactive, summary.Status)

	info, err := tr.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.UserCount)
	assert.Equal(t, 1, info.SessionCount)
}

func TestTracker_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := tr.Register(ctx, "shared", fmt.Sprintf("name-%d", i))
			switch {
			case err == nil:
				successes.Add(1)
			case apperr.KindOf(err) == apperr.KindAlreadyExists:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(49), conflicts.Load())
}

func TestTracker_ConcurrentIdenticalSessions(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	require.NoError(t, tr.Register(ctx, "u1", "Alice"))

	var (
		wg         sync.WaitGroup
		successes  atomic.Int32
		duplicates atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.RecordSession(ctx, session.Candidate{
				UserID:     "u1",
				LoginTime:  "2024-03-01T10:00:00",
				LogoutTime: "2024-03-01T11:00:00",
			})
			switch {
			case err == nil:
				successes.Add(1)
			case apperr.KindOf(err) == apperr.KindDuplicateSession:
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(49), duplicates.Load())

	sessions, err := tr.SessionsFor(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestTracker_ConcurrentDistinctUsers(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%02d", i)
			assert.NoError(t, tr.Register(ctx, id, id))
			_, err := tr.RecordSession(ctx, session.Candidate{
				UserID:     id,
				LoginTime:  "2024-03-01T10:00:00",
				LogoutTime: "2024-03-01T11:00:00",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	info, err := tr.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, info.UserCount)
	assert.Equal(t, 20, info.SessionCount)
	assert.Empty(t, tr.locks.locks)
}

func TestTracker_EndToEnd(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	require.NoError(t, tr.Register(ctx, "user1", "User One"))
	record(t, tr, "user1", "2023-01-01T10:00:00", "2023-01-01T12:00:00")

	total, err := tr.TotalActivityTime(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)

	status, err := tr.UserStatus(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, activity.StatusHighlyActive, status)

	jan, err := tr.MonthlyActivity(ctx, "user1", "2023-01")
	require.NoError(t, err)
	assert.Equal(t, activity.DailyActivity{"2023-01-01": 120}, jan)

	apr, err := tr.MonthlyActivity(ctx, "user1", "2023-04")
	require.NoError(t, err)
	assert.Empty(t, apr)
}

func TestTracker_InactiveUsers_Window(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, tr.Register(ctx, "forty", "Forty"))
	require.NoError(t, tr.Register(ctx, "ten", "Ten"))
	require.NoError(t, tr.Register(ctx, "zero", "Zero"))

	record(t, tr, "forty", "2024-02-20T09:00:00", "2024-02-20T10:00:00")
	record(t, tr, "ten", "2024-03-21T09:00:00", "2024-03-21T10:00:00")

	got, err := tr.InactiveUsers(ctx, 30, asOf)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"forty": "2024-02-20",
		"zero":  activity.NeverActive,
	}, got)
}

// Two trackers over one Redis server stand in for two processes: their
// user locks are independent, so the store has to reject the duplicate.
func TestTracker_SharedRedisRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	newTracker := func() *Tracker {
		store := storage.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.UTC)
		t.Cleanup(func() { store.Close() })
		return New(store, WithClock(clock.Fixed(testNow)), WithLocation(time.UTC))
	}
	trackers := []*Tracker{newTracker(), newTracker()}
	require.NoError(t, trackers[0].Register(ctx, "u1", "Alice"))

	err := trackers[1].Register(ctx, "u1", "Alice")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	var (
		wg         sync.WaitGroup
		successes  atomic.Int32
		duplicates atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(tr *Tracker) {
			defer wg.Done()
			_, err := tr.RecordSession(ctx, session.Candidate{
				UserID:     "u1",
				LoginTime:  "2024-03-01T10:00:00",
				LogoutTime: "2024-03-01T11:00:00",
			})
			switch {
			case err == nil:
				successes.Add(1)
			case apperr.KindOf(err) == apperr.KindDuplicateSession:
				duplicates.Add(1)
			}
		}(trackers[i%2])
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(19), duplicates.Load())

	total, err := trackers[0].TotalActivityTime(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(60), total)
}

func TestTracker_HistoricalSessionsAgreeAcrossStores(t *testing.T) {
	mr := miniredis.RunT(t)
	stores := map[string]func() storage.Store{
		storage.BackendMemory: func() storage.Store {
			return storage.NewMemoryStore()
		},
		storage.BackendSQLite: func() storage.Store {
			s, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "tally.db"), storage.WithLocation(time.UTC))
			require.NoError(t, err)
			return s
		},
		storage.BackendRedis: func() storage.Store {
			return storage.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.UTC)
		},
	}

	cases := []struct {
		login, logout string
		date          string
	}{
		{"1970-01-01T00:00:00", "1970-01-01T02:00:00", "1970-01-01"},
		{"1600-01-01T10:00", "1600-01-01T12:00", "1600-01-01"},
	}

	for name, open := range stores {
		for _, tc := range cases {
			t.Run(name+"/"+tc.date, func(t *testing.T) {
				ctx := context.Background()
				mr.FlushAll()

				store := open()
				require.NoError(t, store.Init(ctx))
				t.Cleanup(func() { store.Close() })

				tr := New(store, WithClock(clock.Fixed(testNow)), WithLocation(time.UTC))
				require.NoError(t, tr.Register(ctx, "u", "User"))
				record(t, tr, "u", tc.login, tc.logout)

				total, err := tr.TotalActivityTime(ctx, "u")
				require.NoError(t, err)
				assert.Equal(t, int64(120), total)

				last, ok, err := tr.LastSessionDate(ctx, "u")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, tc.date, last)

				_, err = tr.RecordSession(ctx, session.Candidate{UserID: "u", LoginTime: tc.login, LogoutTime: tc.logout})
				assert.ErrorIs(t, err, apperr.ErrDuplicateSession)
			})
		}
	}
}
