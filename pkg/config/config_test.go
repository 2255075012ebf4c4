//go:build unit || !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir, so that no stray .env file is picked up.
func chdir(t *testing.T, dir string) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "broker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Store:
  Driver: postgres
  DSN: postgres://broker@db/broker
Matching:
  QueryTimeout: 3s
Housekeeping:
  Workers: 4
`), 0o600))
	t.Setenv(KeyAsEnvVar(HousekeepingInterval), "90s")
	t.Setenv(KeyAsEnvVar(TokensSecret), "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://broker@db/broker", cfg.Store.DSN)
	assert.Equal(t, 3*time.Second, cfg.Matching.QueryTimeout)
	assert.Equal(t, 4, cfg.Housekeeping.Workers)
	assert.Equal(t, 90*time.Second, cfg.Housekeeping.Interval)
	assert.Equal(t, "from-env", cfg.Tokens.Secret)
	assert.Equal(t, Default().Matching.RemoteTimeout, cfg.Matching.RemoteTimeout)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GRIDBROKER_NOTIFY_BACKEND=redis\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GRIDBROKER_NOTIFY_BACKEND") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, NotifyBackendRedis, cfg.Notify.Backend)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = "mysql"
	cfg.Output.Backend = OutputBackendS3
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "mysql"`)
	assert.Contains(t, err.Error(), "s3 output bucket cannot be blank")
}

func TestValidateSizes(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Store.MaxOpenConns = -1
	cfg.Lookup.CacheSize = -5
	cfg.Lifecycle.MaxAttempts = 11
	cfg.Housekeeping.Workers = 65
	cfg.Notify.RedisDB = 16
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store connection limit cannot be negative")
	assert.Contains(t, err.Error(), "lookup cache size cannot be negative")
	assert.Contains(t, err.Error(), "lifecycle attempts must be between 0 and 10")
	assert.Contains(t, err.Error(), "housekeeping workers must be between 0 and 64")
	assert.Contains(t, err.Error(), "redis database must be between 0 and 15")

	cfg = Default()
	cfg.Lookup.CacheSize = 0
	cfg.Housekeeping.Workers = 0
	assert.NoError(t, cfg.Validate())
}

func TestKeyAsEnvVar(t *testing.T) {
	assert.Equal(t, "GRIDBROKER_STORE_DRIVER", KeyAsEnvVar(StoreDriver))
}
