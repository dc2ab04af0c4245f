package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescore/internal/ids"
	"salescore/internal/kv"
)

var envKeys = []string{
	"SALESCORE_STORAGE_DRIVER", "SALESCORE_FS_ROOT", "SALESCORE_SQLITE_PATH",
	"SALESCORE_POSTGRES_DSN", "SALESCORE_S3_BUCKET", "SALESCORE_S3_REGION",
	"SALESCORE_S3_PREFIX", "SALESCORE_S3_ENDPOINT", "SALESCORE_S3_PATH_STYLE",
	"SALESCORE_S3_ACCESS_KEY_ID", "SALESCORE_S3_SECRET_ACCESS_KEY",
	"SALESCORE_STORAGE_KEY", "SALESCORE_LOG_LEVEL", "SALESCORE_ID_STRATEGY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, kv.DriverFilesystem, cfg.Storage.Driver)
	assert.Equal(t, "./data", cfg.Storage.FSRoot)
	assert.Equal(t, "salescore.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "salescore-storage", cfg.StorageKey)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ids.StrategyUUID, cfg.IDStrategy)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
}

func TestS3Settings(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALESCORE_STORAGE_DRIVER", "S3")
	t.Setenv("SALESCORE_S3_BUCKET", "crm")
	t.Setenv("SALESCORE_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("SALESCORE_S3_PATH_STYLE", "yes")
	t.Setenv("SALESCORE_LOG_LEVEL", "debug")
	t.Setenv("SALESCORE_ID_STRATEGY", "hex")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, kv.DriverS3, cfg.Storage.Driver)
	assert.Equal(t, "crm", cfg.Storage.S3.Bucket)
	assert.Equal(t, "http://minio:9000", cfg.Storage.S3.Endpoint)
	assert.True(t, cfg.Storage.S3.PathStyle)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ids.StrategyHex, cfg.IDStrategy)
}

func TestValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":  {"SALESCORE_STORAGE_DRIVER": "tape"},
		"postgres no dsn": {"SALESCORE_STORAGE_DRIVER": "postgres"},
		"s3 no bucket":    {"SALESCORE_STORAGE_DRIVER": "s3"},
		"bad level":       {"SALESCORE_LOG_LEVEL": "loud"},
		"bad id strategy": {"SALESCORE_ID_STRATEGY": "serial"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	for _, k := range envKeys {
		require.NoError(t, os.Unsetenv(k))
	}
	dir := t.TempDir()
	file := filepath.Join(dir, "salescore.env")
	require.NoError(t, os.WriteFile(file, []byte("SALESCORE_STORAGE_DRIVER=sqlite\nSALESCORE_SQLITE_PATH=/tmp/crm.db\nSALESCORE_STORAGE_KEY=from-file\n"), 0o600))
	t.Setenv("SALESCORE_STORAGE_KEY", "from-env")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, kv.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/crm.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "from-env", cfg.StorageKey)

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.NoError(t, err)
}
