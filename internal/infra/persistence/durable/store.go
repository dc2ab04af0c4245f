// Package durable keeps the in-memory record store in sync with a key/value
// backend. The full state is written as one JSON envelope under a fixed key
// after every committed transaction that changed something.
package durable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"salescore/internal/infra/persistence/memory"
	"salescore/internal/kv"
	"salescore/internal/migrate"
	"salescore/internal/seed"
	"salescore/pkg/domain"
)

// DefaultKey is the storage name the envelope is written under.
const DefaultKey = "salescore-storage"

var _ domain.PersistentStore = (*Store)(nil)

// Envelope is the persisted document.
type Envelope struct {
	Version int              `json:"version"`
	State   *memory.Snapshot `json:"state"`
}

// Outcome reports how the initial state was obtained.
type Outcome string

// Load outcomes.
const (
	OutcomeSeeded   Outcome = "seeded"
	OutcomeLoaded   Outcome = "loaded"
	OutcomeMigrated Outcome = "migrated"
	OutcomeNewer    Outcome = "newer"
)

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load and persist diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeed replaces the seed dataset used for fallback and migrations.
func WithSeed(fn func() memory.Snapshot) Option {
	return func(s *Store) {
		if fn != nil {
			s.seedFn = fn
		}
	}
}

// WithMemoryOptions forwards options to the wrapped memory store.
func WithMemoryOptions(opts ...memory.Option) Option {
	return func(s *Store) {
		s.memOpts = append(s.memOpts, opts...)
	}
}

// Store wraps memory.Store and writes its snapshot to a kv.Store.
type Store struct {
	*memory.Store
	backend kv.Store
	key     string
	logger  *slog.Logger
	seedFn  func() memory.Snapshot
	memOpts []memory.Option

	writeMu sync.Mutex
	outcome Outcome
	stored  int
	applied []migrate.Applied
}

// Open loads the persisted envelope from backend, migrating or seeding as
// needed, and returns a store ready for transactions. Only a failed
// write-back after migration is reported as an error; unreadable or corrupt
// state falls back to the seed.
func Open(ctx context.Context, backend kv.Store, engine *domain.RulesEngine, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("durable: nil backend")
	}
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		logger:  slog.New(slog.DiscardHandler),
		seedFn:  seed.Snapshot,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Store = memory.NewStore(engine, s.memOpts...)
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	raw, found, err := s.backend.Get(ctx, s.key)
	switch {
	case err != nil:
		s.logger.Warn("read persisted state failed, using seed", "key", s.key, "driver", s.backend.Driver(), "error", err)
		return s.useSeed()
	case !found:
		s.logger.Info("no persisted state, using seed", "key", s.key, "driver", s.backend.Driver())
		return s.useSeed()
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		s.logger.Warn("persisted state unreadable, using seed", "key", s.key, "error", err)
		return s.useSeed()
	}
	s.stored = env.Version

	switch {
	case env.Version > migrate.CurrentVersion:
		s.logger.Warn("persisted state is newer than this build", "stored", env.Version, "current", migrate.CurrentVersion)
		s.ImportState(*env.State)
		s.outcome = OutcomeNewer
		return nil
	case env.Version == migrate.CurrentVersion:
		s.ImportState(*env.State)
		s.outcome = OutcomeLoaded
		return nil
	}

	migrated, applied, err := migrate.Run(env.Version, migrate.CurrentVersion, *env.State, s.seedFn)
	if err != nil {
		s.logger.Warn("migration failed, using seed", "from", env.Version, "error", err)
		return s.useSeed()
	}
	for _, step := range applied {
		s.logger.Info("migration applied", "from", step.From, "to", step.To, "step", step.Description)
	}
	s.ImportState(migrated)
	s.outcome = OutcomeMigrated
	s.applied = applied
	if err := s.Persist(ctx); err != nil {
		return fmt.Errorf("write migrated state: %w", err)
	}
	return nil
}

func (s *Store) useSeed() error {
	s.ImportState(s.seedFn())
	s.outcome = OutcomeSeeded
	s.stored = 0
	return nil
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.State == nil {
		return Envelope{}, errors.New("decode envelope: missing state")
	}
	return env, nil
}

// Persist writes the current snapshot at CurrentVersion.
func (s *Store) Persist(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	state := s.ExportState()
	data, err := json.Marshal(Envelope{Version: migrate.CurrentVersion, State: &state})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// RunInTransaction applies fn to the memory store and, when the transaction
// committed changes, writes the snapshot once. A failed write is returned but
// the in-memory commit stands.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	before := s.Revision()
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if s.Revision() == before {
		return res, nil
	}
	if err := s.Persist(ctx); err != nil {
		s.logger.Error("persist failed", "key", s.key, "error", err)
		return res, err
	}
	return res, nil
}

// Reset replaces the state with a fresh seed and writes it.
func (s *Store) Reset(ctx context.Context) error {
	s.ImportState(s.seedFn())
	return s.Persist(ctx)
}

// Outcome reports how the state was obtained on open.
func (s *Store) Outcome() Outcome { return s.outcome }

// StoredVersion is the version read from the backend, 0 when seeded.
func (s *Store) StoredVersion() int { return s.stored }

// Applied lists the migration steps run on open.
func (s *Store) Applied() []migrate.Applied {
	return append([]migrate.Applied(nil), s.applied...)
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Backend exposes the key/value backend.
func (s *Store) Backend() kv.Store { return s.backend }

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }
