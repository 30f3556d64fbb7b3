package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-task-manager/internal/config"
)

func TestNewApplicationLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()

	logger := newApplicationLogger(zerolog.New(&buf), cfg)
	logger.Info().Msg("ready")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, cfg.AppName, record["app"])
	assert.Equal(t, config.EnvLocal, record["env"])
	assert.Equal(t, config.StorageDriverSQLite, record["storage_driver"])
	assert.Equal(t, "ready", record["message"])
}

func TestEnvLogLevels(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, envLogLevels[config.EnvLocal])
	assert.Equal(t, zerolog.DebugLevel, envLogLevels[config.EnvDev])
	assert.Equal(t, zerolog.InfoLevel, envLogLevels[config.EnvProd])

	_, ok := envLogLevels["staging"]
	assert.False(t, ok)
}
