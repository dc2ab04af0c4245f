// Package core defines the key/value storage abstraction the durable store
// writes its envelope through.
package core

import (
	"context"
	"errors"
	"strings"
)

// Driver identifies a concrete key/value backend implementation.
type Driver string

const (
	// DriverFilesystem stores one file per key under a root directory.
	DriverFilesystem Driver = "fs" // default, dev
	// DriverSQLite stores keys in a single SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores keys in a single Postgres table.
	DriverPostgres Driver = "postgres"
	// DriverS3 stores one object per key in an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps values in process memory (tests).
	DriverMemory Driver = "memory"
)

// Store is a minimal byte-oriented key/value store. Put replaces any existing
// value. Get reports found=false, not an error, for a missing key. Delete of a
// missing key succeeds.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Driver() Driver
	Close() error
}

// ErrInvalidKey is returned for empty keys or keys that escape the backend's namespace.
var ErrInvalidKey = errors.New("kv: invalid key")

// ValidateKey rejects blank keys.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
