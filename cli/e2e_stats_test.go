package cli_test

import (
	"testing"

	"github.com/safedep/tally/cli"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/tui"
	"github.com/stretchr/testify/assert"
)

func TestStats_Database(t *testing.T) {
	env := newTestEnv(t)
	seedAlice(env)
	env.mustRun("user", "register", "bob", "Bob")

	stdout := env.mustRun("stats", "--format", "json")
	db := decodeJSON[tui.DatabaseView](t, stdout)
	assert.Equal(t, "sqlite", db.Backend)
	assert.Equal(t, env.dbPath, db.Location)
	assert.Equal(t, 2, db.UserCount)
	assert.Equal(t, 3, db.SessionCount)

	stdout = env.mustRun("stats")
	assert.Contains(t, stdout, "Database")
	assert.Contains(t, stdout, env.dbPath)
}

func TestStats_User(t *testing.T) {
	env := newTestEnv(t)
	seedAlice(env)

	stdout := env.mustRun("stats", "alice", "--format", "json")
	s := decodeJSON[tui.SummaryView](t, stdout)
	assert.Equal(t, "alice", s.UserID)
	assert.Equal(t, "Alice", s.UserName)
	assert.Equal(t, 3, s.TotalSessions)
	assert.Equal(t, int64(180), s.TotalMinutes)
	assert.Equal(t, int64(90), s.LongestMinutes)
	assert.Equal(t, 3, s.ActiveDays)
	assert.Equal(t, "Highly active", s.Status)

	stdout = env.mustRun("stats", "alice")
	assert.Contains(t, stdout, "Activity Summary")
	assert.Contains(t, stdout, "Highly active")
}

func TestStats_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("stats", "ghost")
	assertExitCode(t, err, cli.ExitRejected)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}
