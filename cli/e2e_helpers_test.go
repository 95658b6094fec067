package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/safedep/tally/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t          *testing.T
	tmpDir     string
	dbPath     string
	configPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, "")
}

func newTestEnvWithConfig(t *testing.T, configYAML string) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	configPath := filepath.Join(tmpDir, "config.yaml")

	if configYAML == "" {
		configYAML = fmt.Sprintf(`storage:
  backend: sqlite
  path: %s
activity:
  inactive_days: 30
display:
  colors: never
  timezone: utc
`, dbPath)
	}

	err := os.WriteFile(configPath, []byte(configYAML), 0o600)
	require.NoError(t, err)

	return &testEnv{
		t:          t,
		tmpDir:     tmpDir,
		dbPath:     dbPath,
		configPath: configPath,
	}
}

func (env *testEnv) run(args ...string) (stdout, stderr string, err error) {
	env.t.Helper()

	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)

	fullArgs := append([]string{"--config", env.configPath, "--no-color"}, args...)
	rootCmd.SetArgs(fullArgs)
	err = rootCmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

// mustRun runs args and fails the test on error.
func (env *testEnv) mustRun(args ...string) string {
	env.t.Helper()

	stdout, _, err := env.run(args...)
	require.NoError(env.t, err, "tally %v", args)
	return stdout
}

// seedAlice registers alice with three sessions: 90 minutes on 2024-03-01,
// 60 on 2024-03-02 and 30 on 2024-04-10.
func seedAlice(env *testEnv) {
	env.mustRun("user", "register", "alice", "Alice")
	env.mustRun("session", "record", "alice", "2024-03-01T09:00", "2024-03-01T10:30")
	env.mustRun("session", "record", "alice", "2024-03-02T09:00", "2024-03-02T10:00")
	env.mustRun("session", "record", "alice", "2024-04-10T09:00", "2024-04-10T09:30")
}

func assertExitCode(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)
	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, code, ec.ExitCode())
}

func decodeJSON[T any](t *testing.T, stdout string) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(stdout), &v), "invalid JSON: %s", stdout)
	return v
}
