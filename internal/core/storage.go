package core

import (
	"context"
	"fmt"
	"log/slog"

	"salescore/internal/config"
	"salescore/internal/ids"
	"salescore/internal/infra/persistence/durable"
	"salescore/internal/infra/persistence/memory"
	"salescore/internal/kv"
)

// OpenPersistentStore opens the configured key/value backend and loads the
// durable store from it, seeding or migrating as needed.
//
//	SALESCORE_STORAGE_DRIVER: memory|fs|sqlite|postgres|s3 (default fs)
//	SALESCORE_STORAGE_KEY: envelope key (default salescore-storage)
//	SALESCORE_ID_STRATEGY: uuid|hex (default uuid)
func OpenPersistentStore(ctx context.Context, cfg *config.Config, engine *RulesEngine, logger *slog.Logger) (*durable.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	backend, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	store, err := durable.Open(ctx, backend, engine,
		durable.WithKey(cfg.StorageKey),
		durable.WithLogger(logger),
		durable.WithMemoryOptions(memory.WithIDGenerator(ids.New(cfg.IDStrategy))),
	)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	logger.Info("storage ready", "driver", backend.Driver(), "key", store.Key(), "outcome", store.Outcome(), "stored_version", store.StoredVersion())
	return store, nil
}
