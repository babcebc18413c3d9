package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDB, EnvAddr, EnvLog, EnvRateLimit, EnvRateBurst} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "KNJIZNICA_DB=postgres://lib@localhost/lib\nKNJIZNICA_ADDR=:9090\nKNJIZNICA_RATE_LIMIT=5\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://lib@localhost/lib", cfg.DB)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 40, cfg.RateBurst)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "KNJIZNICA_ADDR=:9090\nKNJIZNICA_LOG=file.log\n")
	t.Setenv(EnvAddr, ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "file.log", cfg.LogPath)
}

func TestRateLimitDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRateLimit, "0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimit)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvRateLimit, "fast"},
		{EnvRateLimit, "-1"},
		{EnvRateBurst, "0"},
		{EnvRateBurst, "many"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
