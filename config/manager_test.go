package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewManager_NoConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)
	require.NotNil(t, mgr)

	assert.Equal(t, configFile, mgr.ConfigPath())
	assert.NotNil(t, mgr.AllSettings())
	assert.Equal(t, ":7000", mgr.Get("server.address"))
	assert.Equal(t, "sqlite", mgr.Get("storage.backend"))
}

func TestNewManager_WithExistingConfig(t *testing.T) {
	configFile := writeConfig(t, `
storage:
  backend: memory
activity:
  inactive_days: 7
`)

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	assert.Equal(t, "memory", mgr.Get("storage.backend"))
	assert.Equal(t, 7, mgr.Get("activity.inactive_days"))
}

func TestManager_Set_WritesCompleteConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "nested", "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	err = mgr.Set("display.timezone", "utc")
	require.NoError(t, err)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var configMap map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &configMap))

	assert.Contains(t, configMap, "server")
	assert.Contains(t, configMap, "storage")
	assert.Contains(t, configMap, "activity")
	assert.Contains(t, configMap, "display")

	display, ok := configMap["display"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "utc", display["timezone"])

	cfg, err := Load(configFile)
	require.NoError(t, err)
	assert.Equal(t, TimezoneUTC, cfg.Display.Timezone)
}

func TestManager_Set_PreservesExistingValues(t *testing.T) {
	configFile := writeConfig(t, `
server:
  address: ":8080"
activity:
  inactive_days: 60
`)

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	require.NoError(t, mgr.Set("display.colors", "always"))

	reloaded, err := NewManager(configFile)
	require.NoError(t, err)
	assert.Equal(t, ":8080", reloaded.Get("server.address"))
	assert.Equal(t, 60, reloaded.Get("activity.inactive_days"))
	assert.Equal(t, "always", reloaded.Get("display.colors"))
}

func TestManager_Set_RejectsInvalidValue(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	mgr, err := NewManager(configFile)
	require.NoError(t, err)

	err = mgr.Set("storage.backend", "mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage.backend")

	assert.Equal(t, "sqlite", mgr.Get("storage.backend"))
	_, statErr := os.Stat(configFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestManager_Set_RejectsUnknownKey(t *testing.T) {
	mgr, err := NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	err = mgr.Set("storage.retention_days", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestManager_Reset_RemovesConfigFile(t *testing.T) {
	configFile := writeConfig(t, `
activity:
  inactive_days: 5
`)

	mgr, err := NewManager(configFile)
	require.NoError(t, err)
	assert.Equal(t, 5, mgr.Get("activity.inactive_days"))

	require.NoError(t, mgr.Reset())

	_, err = os.Stat(configFile)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 30, mgr.Get("activity.inactive_days"))
}

func TestManager_Reset_NonExistentFile(t *testing.T) {
	mgr, err := NewManager(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	require.NoError(t, mgr.Reset())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"true", true},
		{"false", false},
		{"42", 42},
		{"2.5", 2.5},
		{"utc", "utc"},
		{":7000", ":7000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.in))
		})
	}
}
