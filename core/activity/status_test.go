package activity

import (
	"context"
	"testing"
	"time"

	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/core/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) TotalActivityTime(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSource) SessionsFor(ctx context.Context, userID string) ([]*session.Session, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]*session.Session)
	return sessions, args.Error(1)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		minutes int64
		want    Status
	}{
		{0, StatusInactive},
		{59, StatusInactive},
		{60, StatusActive},
		{119, StatusActive},
		{120, StatusHighlyActive},
		{10000, StatusHighlyActive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestStatusService_UserStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		minutes int64
		want    string
	}{
		{"inactive", 30, "Inactive"},
		{"active", 90, "Active"},
		{"highly active", 150, "Highly active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(mockSource)
			src.On("TotalActivityTime", ctx, "u1").Return(tt.minutes, nil).Once()

			status, err := NewStatusService(src).UserStatus(ctx, "u1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, status.String())
			src.AssertNumberOfCalls(t, "TotalActivityTime", 1)
			src.AssertExpectations(t)
		})
	}
}

func TestStatusService_UserStatus_PropagatesError(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("TotalActivityTime", ctx, "u1").Return(int64(0), apperr.NoSessionsFound())

	_, err := NewStatusService(src).UserStatus(ctx, "u1")

	assert.ErrorIs(t, err, apperr.ErrNoSessionsFound)
	src.AssertExpectations(t)
}

func TestStatusService_LastSessionDate(t *testing.T) {
	ctx := context.Background()
	sessions := []*session.Session{
		session.New("u1",
			time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC)),
		session.New("u1",
			time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)),
	}

	src := new(mockSource)
	src.On("SessionsFor", ctx, "u1").Return(sessions, nil).Once()

	date, ok, err := NewStatusService(src).LastSessionDate(ctx, "u1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-05", date)
	src.AssertNumberOfCalls(t, "SessionsFor", 1)
}

func TestStatusService_LastSessionDate_NoSessions(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("SessionsFor", ctx, "u1").Return([]*session.Session{}, nil)

	date, ok, err := NewStatusService(src).LastSessionDate(ctx, "u1")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, date)
}
