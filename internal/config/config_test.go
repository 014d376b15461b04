package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"CONFIG_FILE", "PORT", "ALLOWED_ORIGINS", "API_KEYS", "RESULTS_BACKEND",
	"REDIS_URL", "DATABASE_URL", "MAX_MESSAGE_SIZE", "RESULTS_KEPT", "DEBUG",
}

// clearEnv blanks every variable Load reads. Blank values are ignored.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
port: "9000"
allowed_origins:
  - https://chess.example
api_keys: [a, b]
results_backend: redis
redis_url: redis://localhost:6379/0
`), 0o600))

	t.Setenv("CONFIG_FILE", file)
	t.Setenv("API_KEYS", " k1 , ,k2")
	t.Setenv("DEBUG", "true")

	cfg, err := Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://chess.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys)
	assert.Equal(t, "redis", cfg.ResultsBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.Debug)
	assert.EqualValues(t, 4096, cfg.MaxMessageSize)
}

func TestEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MAX_MESSAGE_SIZE=8192\n"), 0o600))

	// godotenv never overrides a variable that is already set, even blank.
	require.NoError(t, os.Unsetenv("MAX_MESSAGE_SIZE"))
	t.Cleanup(func() { os.Unsetenv("MAX_MESSAGE_SIZE") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.EqualValues(t, 8192, cfg.MaxMessageSize)
}

func TestInvalidValues(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("MAX_MESSAGE_SIZE", "lots")
	_, err := Load(missing)
	assert.Error(t, err)

	t.Setenv("MAX_MESSAGE_SIZE", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err = Load(missing)
	assert.Error(t, err)
}
