package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty temp directory so a framelab.yml in
// the repository root cannot leak into the result.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:8080", cfg.Server.Address())
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.URL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := chdirTemp(t)

	yml := []byte(`
server:
  host: 0.0.0.0
  port: 9090
  api_prefix: /api
database:
  driver: sqlite3
  url: framelab.db
cache:
  enabled: true
  addr: redis:6379
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "framelab.yml"), yml, 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, "framelab.db", cfg.Database.URL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FRAMELAB_SERVER_PORT", "7070")
	t.Setenv("FRAMELAB_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"prefix without leading slash", "server:\n  api_prefix: api\n"},
		{"prefix with trailing slash", "server:\n  api_prefix: /api/\n"},
		{"port out of range", "server:\n  port: 70000\n"},
		{"bad log level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "framelab.yml"), []byte(tt.yml), 0644))

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(LogConfig{Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Sync()

	_, err = NewLogger(LogConfig{Level: "loud"})
	assert.Error(t, err)
}
