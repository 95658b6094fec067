package cli_test

import (
	"testing"

	"github.com/safedep/tally/cli"
	"github.com/safedep/tally/core/apperr"
	"github.com/safedep/tally/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegister(t *testing.T) {
	env := newTestEnv(t)

	stdout := env.mustRun("user", "register", "alice", "Alice")
	assert.Contains(t, stdout, "User registered: alice")

	_, _, err := env.run("user", "register", "alice", "Someone Else")
	assertExitCode(t, err, cli.ExitRejected)
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
	assert.Contains(t, err.Error(), apperr.MsgAlreadyExists)
}

func TestUserRegister_MissingArgs(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("user", "register", "alice")
	assert.Error(t, err)
}

func TestUserList(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("user", "register", "bob", "Bob")
	env.mustRun("user", "register", "alice", "Alice")

	stdout := env.mustRun("user", "list")
	assert.Contains(t, stdout, "Users (2)")
	assert.Contains(t, stdout, "alice")
	assert.Contains(t, stdout, "bob")

	stdout = env.mustRun("user", "list", "--format", "json")
	users := decodeJSON[[]tui.UserView](t, stdout)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].ID)
	assert.Equal(t, "bob", users[1].ID)
}

func TestUserList_EmptyJSON(t *testing.T) {
	env := newTestEnv(t)

	stdout := env.mustRun("user", "list", "--format", "json")
	users := decodeJSON[[]tui.UserView](t, stdout)
	assert.Empty(t, users)
}
