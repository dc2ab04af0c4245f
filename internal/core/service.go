package core

import (
	"context"
	"fmt"
	"time"

	"salescore/internal/infra/persistence/memory"
)

// Service exposes the transactional operation set collaborators use: add,
// update, patch and delete per entity, the special order, lead and stock
// actions, and the derived-metric readers.
type Service struct {
	store   PersistentStore
	engine  *RulesEngine
	clock   Clock
	now     func() time.Time
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
}

type rulesEngineProvider interface {
	RulesEngine() *RulesEngine
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := newService(opts...)
	s.store = store
	if p, ok := store.(rulesEngineProvider); ok {
		s.engine = p.RulesEngine()
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store. The
// store stamps records with the service clock.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	s := newService(opts...)
	store := memory.NewStore(engine, memory.WithNowFunc(s.now))
	s.store = store
	s.engine = store.RulesEngine()
	return s
}

func newService(opts ...Option) *Service {
	s := &Service{
		clock:   ClockFunc(defaultNow),
		now:     defaultNow,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// RulesEngine returns the engine evaluated on every commit, or nil when the
// store does not expose one.
func (s *Service) RulesEngine() *RulesEngine {
	return s.engine
}

// ErrNotFound is returned by strict readers when a record does not exist.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type operationMeta struct {
	entity EntityType
	action Action
}

var operations = buildOperations()

func buildOperations() map[string]operationMeta {
	ops := map[string]operationMeta{
		"update_order_status": {entity: EntityOrder, action: ActionUpdate},
		"convert_lead":        {entity: EntityClient, action: ActionCreate},
		"transfer_stock":      {entity: EntityWarehouse, action: ActionUpdate},
	}
	for _, entity := range []EntityType{
		EntityClient, EntityLead, EntityTask, EntityProduct, EntityOrder,
		EntityWarehouse, EntityEmployee, EntityReturn, EntityPayment,
	} {
		ops["add_"+string(entity)] = operationMeta{entity: entity, action: ActionCreate}
		ops["update_"+string(entity)] = operationMeta{entity: entity, action: ActionUpdate}
		ops["patch_"+string(entity)] = operationMeta{entity: entity, action: ActionUpdate}
		ops["delete_"+string(entity)] = operationMeta{entity: entity, action: ActionDelete}
	}
	return ops
}

// run executes fn in one store transaction and reports the outcome to the
// tracer, metrics, audit and logger. fn returns the id of the record it
// touched, or "" when the call was a no-op.
func (s *Service) run(ctx context.Context, op string, fn func(tx Transaction) (string, error)) (Result, error) {
	ctx, span := s.tracer.Start(ctx, op)
	start := s.now()
	var entityID string
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		id, err := fn(tx)
		entityID = id
		return err
	})
	duration := s.now().Sub(start)

	s.metrics.Observe(ctx, op, err == nil, duration)
	span.End(err)
	for _, v := range res.Violations {
		s.logger.Warn("rule violation", "operation", op, "rule", v.Rule, "severity", v.Severity, "entity", v.Entity, "id", v.EntityID, "message", v.Message)
	}
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "id", entityID, "error", err)
		s.recordAuditError(ctx, op, entityID, duration, err)
		return res, err
	}
	if entityID == "" {
		s.logger.Debug("operation matched no record", "operation", op)
	} else {
		s.logger.Info("operation committed", "operation", op, "id", entityID, "duration", duration)
	}
	s.recordAuditSuccess(ctx, op, entityID, duration)
	return res, nil
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID string, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, duration, nil)
}

func (s *Service) recordAuditError(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, duration, err)
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	meta, ok := operations[op]
	if !ok {
		return
	}
	entry := AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}
