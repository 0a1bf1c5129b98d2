package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	isolateXDG(t)
	assert.NoError(t, validateConfig(DefaultConfig()))
}

func TestValidateRejectsBadValues(t *testing.T) {
	isolateXDG(t)

	cases := map[string]func(*Config){
		"zero connections":       func(c *Config) { c.Database.MaxConnections = 0 },
		"negative debounce":      func(c *Config) { c.Engine.DebounceWindow = -time.Second },
		"huge debounce":          func(c *Config) { c.Engine.DebounceWindow = time.Minute },
		"unknown log level":      func(c *Config) { c.Logging.Level = "loud" },
		"unknown log format":     func(c *Config) { c.Logging.Format = "xml" },
		"unmanaged theme key":    func(c *Config) { c.Theme.Defaults = map[string]string{"--vendor-extra": "#fff"} },
		"invalid theme color":    func(c *Config) { c.Theme.Defaults = map[string]string{"--palette-primary-main": "nope"} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestValidateAcceptsManagedThemeDefaults(t *testing.T) {
	isolateXDG(t)

	cfg := DefaultConfig()
	cfg.Theme.Defaults = map[string]string{
		"--palette-primary-main": "#336699",
		"--palette-text-primary": "rgba(0, 0, 0, 0.87)",
	}
	assert.NoError(t, validateConfig(cfg))
}

func TestXDGDirsUseAppName(t *testing.T) {
	isolateXDG(t)

	dirs, err := GetXDGDirs()
	require.NoError(t, err)
	assert.Equal(t, appName, filepath.Base(dirs.ConfigHome))
	assert.Equal(t, appName, filepath.Base(dirs.DataHome))
	assert.Equal(t, appName, filepath.Base(dirs.StateHome))

	dbFile, err := GetDatabaseFile()
	require.NoError(t, err)
	assert.Equal(t, databaseName, filepath.Base(dbFile))
}

func TestLoadCreatesDefaultConfigFile(t *testing.T) {
	isolateXDG(t)

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.DebounceWindow)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.Database.Path, "database path is derived when unset")

	configFile, err := GetConfigFile()
	require.NoError(t, err)
	_, err = os.Stat(configFile)
	assert.NoError(t, err, "first load writes a default config file")
}

func TestEnvironmentOverridesConfigValues(t *testing.T) {
	isolateXDG(t)
	t.Setenv("RETINT_LOGGING_LEVEL", "debug")
	t.Setenv("RETINT_ENGINE_DEBOUNCE_WINDOW", "250ms")

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.DebounceWindow)
}
