package kv

import (
	"context"

	"salescore/internal/infra/kv/fs"
	memorystore "salescore/internal/infra/kv/memory"
	"salescore/internal/infra/kv/postgres"
	infraS3 "salescore/internal/infra/kv/s3"
	"salescore/internal/infra/kv/sqlite"
)

// S3Config re-exports the infra S3 configuration type.
type S3Config = infraS3.Config

// NewMemory returns an in-memory kv.Store suitable for tests.
func NewMemory() Store { return memorystore.New() }

// NewFilesystem constructs a filesystem-backed kv.Store rooted at root.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewSQLite opens a SQLite-backed kv.Store at path.
func NewSQLite(ctx context.Context, path string) (Store, error) {
	return sqlite.New(ctx, path)
}

// NewPostgres opens a Postgres-backed kv.Store using dsn.
func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	return postgres.New(ctx, dsn)
}

// NewS3 constructs an S3-backed kv.Store from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return infraS3.New(ctx, cfg)
}

// NewMockS3ForTests exposes the in-memory S3 fake for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
