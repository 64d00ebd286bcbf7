package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/aurelia-concierge/vetting-service/internal/config"
)

func TestLoggerStampsServiceIdentity(t *testing.T) {
	app := config.AppConfig{Name: "vetting-service", Env: "production", Version: "1.4.0"}
	cfg := loggerConfig(config.LoggerConfig{Level: "WARN"}, app)
	assert.False(t, cfg.Development)

	out := filepath.Join(t.TempDir(), "log.json")
	cfg.OutputPaths = []string{out}
	logger, err := cfg.Build()
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &entry), "expected exactly one entry, got %s", raw)
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "vetting-service", entry["service"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, "1.4.0", entry["version"])
}

func TestLoggerConfigDefaults(t *testing.T) {
	cfg := loggerConfig(config.LoggerConfig{Level: "loud"}, config.AppConfig{Name: "vetting-service", Env: "development"})

	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
	assert.True(t, cfg.Development)
	assert.NotContains(t, cfg.InitialFields, "version")
	assert.Equal(t, "development", cfg.InitialFields["env"])

	logger, err := NewLogger(config.LoggerConfig{}, config.AppConfig{Name: "vetting-service"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
