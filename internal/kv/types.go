// Package kv re-exports the key/value storage abstractions and selects a
// backend. Packages outside kv depend on kv.Store, never on the infra
// implementations directly.
package kv

import (
	"salescore/internal/kv/core"
)

type (
	// Driver identifies a key/value backend driver.
	Driver = core.Driver
	// Store is the interface for key/value backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverSQLite is the SQLite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the Postgres driver.
	DriverPostgres = core.DriverPostgres
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrInvalidKey indicates a key a backend cannot store.
var ErrInvalidKey = core.ErrInvalidKey
