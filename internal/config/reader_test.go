package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReader(t *testing.T) {
	t.Setenv("ENV", EnvLocal)
	t.Setenv("TIME_ZONE", "America/Sao_Paulo")
	t.Setenv("STORAGE_DRIVER", StorageDriverPostgres)
	t.Setenv("POSTGRES_PORT", "6432")
	t.Setenv("JWT_SIGNING_KEY", "secret")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "taskmanagerApp", cfg.AppName)
	assert.Equal(t, "America/Sao_Paulo", cfg.TimeZone)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 6432, cfg.Postgres.Port)
	assert.Equal(t, 10*time.Second, cfg.Postgres.ConnectTimeout)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "secret", cfg.JWT.SigningKey)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestFileReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: dev
app_name: tasks
storage_driver: sqlite
sqlite:
  path: /tmp/tasks.db
http:
  port: "9090"
tracing:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("HTTP_HOST", "127.0.0.1")

	cfg, err := NewFileReader(path).Read()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, "tasks", cfg.AppName)
	assert.Equal(t, "/tmp/tasks.db", cfg.SQLite.Path)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestFileReaderMissingFile(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "missing.yaml")).Read()
	assert.Error(t, err)
}
