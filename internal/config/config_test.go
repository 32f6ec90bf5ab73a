package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "fitpose_dev"
redis_host = "localhost"
redis_port = "6379"
prom_metrics_host = "localhost"
prom_metrics_port = "2112"

[production]
host = "0.0.0.0"
port = 9000
log_level = "debug"
logs_path = "/var/log/fitpose/service"
sentry_enabled = true
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "fitpose"
redis_host = "redis"
redis_port = "6379"
prom_metrics_host = "0.0.0.0"
prom_metrics_port = "2112"
login_rate_limit_allowed_per_min = 15
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "fitpose_dev", cfg.PostgresDBName)
	assert.False(t, cfg.SentryEnabled)
	// default applied when not set
	assert.Equal(t, 10, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, 15, cfg.LoginRateLimitAllowedPerMin)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}
