package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears key for the duration of the test.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unset(t, "A")
	unset(t, "B")
	unset(t, "C")

	path := writeDotEnv(t, `
# comment

A=one
export B=two
C="three"
`)

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "one", os.Getenv("A"))
	assert.Equal(t, "two", os.Getenv("B"))
	assert.Equal(t, "three", os.Getenv("C"))
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	path := writeDotEnv(t, "KEEP=fromfile\n")
	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "already", os.Getenv("KEEP"))
}

func TestLoadDotEnv_StripsSingleQuotes(t *testing.T) {
	unset(t, "Q")

	path := writeDotEnv(t, "Q='hello world'\n")
	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "hello world", os.Getenv("Q"))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"APP_ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "REDIS_ADDR", "REDIS_DB", "ADMIN_TOKEN", "LOG_FORMAT", "LOG_LEVEL"} {
		unset(t, key)
	}
	t.Setenv("PRICING_CACHE_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://shop.example.com")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "./dev.db", cfg.DatabaseURL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 2*time.Minute, cfg.PricingCacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://shop.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", ":9090")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("PRICING_CACHE_TTL", "-5s")

	cfg := Load()

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.PricingCacheTTL)
}
