package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadIsolated loads config with a nonexistent .env file so the test is not
// affected by a developer's local environment file.
func loadIsolated(t *testing.T, extraArgs ...string) (*Config, error) {
	t.Helper()
	args := append([]string{"-env-file", filepath.Join(t.TempDir(), "absent.env")}, extraArgs...)
	return LoadConfigFromArgs(args)
}

// clearEnv blanks the ambient variables so only explicit test inputs apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ENV", "LOG_LEVEL", "SERVER_PORT", "ALLOWED_ORIGINS", "PREVIEW_LENGTH", "WATCH_PATHS", "EVENT_BUFFER"} {
		if _, set := os.LookupEnv(key); set {
			t.Setenv(key, "")
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadIsolated(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 100, cfg.Browse.PreviewLength)
	assert.Empty(t, cfg.Watcher.Paths)
	assert.Equal(t, 100, cfg.Watcher.EventBuffer)
}

func TestLoadConfig_FlagsBeatEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := loadIsolated(t, "-port", "9999", "-log-level", "debug")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PREVIEW_LENGTH", "40")
	t.Setenv("WATCH_PATHS", "/srv/projects, /srv/docs")
	t.Setenv("ALLOWED_ORIGINS", "app://filedeck,http://localhost:1420")

	cfg, err := loadIsolated(t)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, 40, cfg.Browse.PreviewLength)
	assert.Equal(t, []string{"/srv/projects", "/srv/docs"}, cfg.Watcher.Paths)
	assert.Equal(t, []string{"app://filedeck", "http://localhost:1420"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	// t.Setenv registers cleanup so the variables written by the .env loader
	// are restored after the test.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_PORT", "")

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "# test config\nLOG_LEVEL=debug\nSERVER_PORT=\"3000\"\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	cfg, err := LoadConfigFromArgs([]string{"-env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "3000", cfg.Server.Port)
}

func TestLoadConfig_InvalidEnvironment(t *testing.T) {
	_, err := loadIsolated(t, "-env", "staging-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	_, err := loadIsolated(t, "-log-level", "verbose")
	require.Error(t, err)
}

func TestLoadConfig_NonNumericPort(t *testing.T) {
	_, err := loadIsolated(t, "-port", "eighty")
	require.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := loadIsolated(t, "-read-timeout", "fast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid read timeout")
}

func TestLoadConfig_DurationOverride(t *testing.T) {
	cfg, err := loadIsolated(t, "-idle-timeout", "2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
}
