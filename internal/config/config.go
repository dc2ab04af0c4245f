// Package config reads salescore settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"salescore/internal/ids"
	"salescore/internal/kv"
)

const (
	defaultDriver     = "fs"
	defaultFSRoot     = "./data"
	defaultSQLitePath = "salescore.db"
	defaultStorageKey = "salescore-storage"
	defaultLogLevel   = "info"
	defaultIDStrategy = "uuid"
	defaultS3Region   = "us-east-1"
)

// Config is the resolved runtime configuration.
type Config struct {
	Storage    kv.Config
	StorageKey string
	LogLevel   slog.Level
	IDStrategy ids.Strategy
}

// Load reads the files given (default ".env") into the process environment
// without overriding variables already set, then resolves Config. Missing
// files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv resolves Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		StorageKey: strings.TrimSpace(getEnv("SALESCORE_STORAGE_KEY", defaultStorageKey)),
		IDStrategy: ids.Strategy(strings.ToLower(strings.TrimSpace(getEnv("SALESCORE_ID_STRATEGY", defaultIDStrategy)))),
	}
	cfg.Storage = kv.Config{
		Driver:      kv.Driver(strings.ToLower(strings.TrimSpace(getEnv("SALESCORE_STORAGE_DRIVER", defaultDriver)))),
		FSRoot:      strings.TrimSpace(getEnv("SALESCORE_FS_ROOT", defaultFSRoot)),
		SQLitePath:  strings.TrimSpace(getEnv("SALESCORE_SQLITE_PATH", defaultSQLitePath)),
		PostgresDSN: strings.TrimSpace(os.Getenv("SALESCORE_POSTGRES_DSN")),
		S3: kv.S3Config{
			Bucket:          strings.TrimSpace(os.Getenv("SALESCORE_S3_BUCKET")),
			Region:          strings.TrimSpace(getEnv("SALESCORE_S3_REGION", defaultS3Region)),
			Prefix:          strings.TrimSpace(os.Getenv("SALESCORE_S3_PREFIX")),
			Endpoint:        strings.TrimSpace(os.Getenv("SALESCORE_S3_ENDPOINT")),
			AccessKeyID:     strings.TrimSpace(os.Getenv("SALESCORE_S3_ACCESS_KEY_ID")),
			SecretAccessKey: strings.TrimSpace(os.Getenv("SALESCORE_S3_SECRET_ACCESS_KEY")),
			PathStyle:       parseBoolEnv("SALESCORE_S3_PATH_STYLE", "false"),
		},
	}
	level, err := parseLevel(getEnv("SALESCORE_LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case kv.DriverFilesystem, kv.DriverSQLite, kv.DriverMemory:
	case kv.DriverPostgres:
		if cfg.Storage.PostgresDSN == "" {
			return fmt.Errorf("SALESCORE_POSTGRES_DSN must be set when SALESCORE_STORAGE_DRIVER=postgres")
		}
	case kv.DriverS3:
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("SALESCORE_S3_BUCKET must be set when SALESCORE_STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("SALESCORE_STORAGE_DRIVER must be one of: memory, fs, sqlite, postgres, s3")
	}
	if cfg.StorageKey == "" {
		return fmt.Errorf("SALESCORE_STORAGE_KEY must not be empty")
	}
	if cfg.IDStrategy != ids.StrategyUUID && cfg.IDStrategy != ids.StrategyHex {
		return fmt.Errorf("SALESCORE_ID_STRATEGY must be one of: uuid, hex")
	}
	return nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return 0, fmt.Errorf("invalid SALESCORE_LOG_LEVEL value %q: %w", value, err)
	}
	return level, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
