package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no config file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(PathEnvVar, "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.Quotes.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("QUOTES_TIMEOUT", "750ms")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Server.EnableHSTS)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, DriverBolt, cfg.Store.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Quotes.Timeout)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
artifacts:
  catalog_path: /srv/books.csv
  model_path: /srv/model.json
logging:
  level: debug
`), 0644))
	t.Setenv(PathEnvVar, p)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/books.csv", cfg.Artifacts.CatalogPath)
	assert.Equal(t, "/srv/model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "data/popular.csv", cfg.Artifacts.PopularPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	assert.ErrorContains(t, err, "Level")
}

func TestValidateServer(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateServer(), "JWTSecret")

	cfg.Auth.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.ValidateServer())

	cfg.Store.Driver = "mysql"
	assert.ErrorContains(t, cfg.ValidateServer(), "Driver")

	cfg.Store.Driver = DriverBolt
	cfg.Store.BoltPath = ""
	assert.ErrorContains(t, cfg.ValidateStore(), "BoltPath")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_DSN=from_file\nMODEL_PATH=/from/file.json\n"), 0644))
	t.Setenv("DB_DSN", "from_env")
	t.Setenv("MODEL_PATH", "")
	os.Unsetenv("MODEL_PATH")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Store.DSN)
	assert.Equal(t, "/from/file.json", cfg.Artifacts.ModelPath)
}
