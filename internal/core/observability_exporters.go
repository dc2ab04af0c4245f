package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var expvarSeq uint64

// OperationStats aggregates one operation's outcomes.
type OperationStats struct {
	Successes int64   `json:"successes"`
	Errors    int64   `json:"errors"`
	TotalMS   float64 `json:"total_ms"`
	MeanMS    float64 `json:"mean_ms"`
}

// ExpvarMetricsRecorder publishes per-operation counters and latency totals
// under a single expvar name, for deployments without a Prometheus scrape.
type ExpvarMetricsRecorder struct {
	name string
	mu   sync.Mutex
	ops  map[string]*OperationStats
}

// NewExpvarMetricsRecorder publishes a recorder under name. An empty name gets
// a unique generated one; expvar panics on duplicate names.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("salescore_service_metrics_%d", id)
	}
	rec := &ExpvarMetricsRecorder{name: name, ops: make(map[string]*OperationStats)}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarMetricsRecorder) Name() string {
	return r.name
}

// Snapshot copies the current stats keyed by operation.
func (r *ExpvarMetricsRecorder) Snapshot() map[string]OperationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]OperationStats, len(r.ops))
	for op, stats := range r.ops {
		out[op] = *stats
	}
	return out
}

// Operations lists the recorded operation names in order.
func (r *ExpvarMetricsRecorder) Operations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.ops))
	for op := range r.ops {
		names = append(names, op)
	}
	sort.Strings(names)
	return names
}

// Observe records a service operation outcome.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.ops[operation]
	if !ok {
		stats = &OperationStats{}
		r.ops[operation] = stats
	}
	if success {
		stats.Successes++
	} else {
		stats.Errors++
	}
	stats.TotalMS += float64(duration) / float64(time.Millisecond)
	stats.MeanMS = stats.TotalMS / float64(stats.Successes+stats.Errors)
}

// TraceEntry is one finished span written by JSONTracer.
type TraceEntry struct {
	TraceID    string    `json:"trace_id"`
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	DurationMS float64   `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

type traceIDKey struct{}

// TraceID returns the id JSONTracer attached to ctx, if any.
func TraceID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok
}

// JSONTracer writes each finished span as a JSON line and keeps a copy.
// Spans started under a context that already carries a trace id reuse it.
type JSONTracer struct {
	mu      sync.Mutex
	entries []TraceEntry
	enc     *json.Encoder
	now     func() time.Time
}

// NewJSONTracer returns a tracer writing to w. A nil writer only retains.
func NewJSONTracer(w io.Writer) *JSONTracer {
	t := &JSONTracer{now: defaultNow}
	if w != nil {
		t.enc = json.NewEncoder(w)
	}
	return t
}

// Entries returns a copy of all finished spans.
func (t *JSONTracer) Entries() []TraceEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TraceEntry(nil), t.entries...)
}

// Start implements Tracer.
func (t *JSONTracer) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	id, ok := TraceID(ctx)
	if !ok {
		id = uuid.NewString()
		ctx = context.WithValue(ctx, traceIDKey{}, id)
	}
	return ctx, &jsonSpan{tracer: t, traceID: id, operation: operation, started: t.now()}
}

type jsonSpan struct {
	tracer    *JSONTracer
	traceID   string
	operation string
	started   time.Time
}

func (s *jsonSpan) End(err error) {
	entry := TraceEntry{
		TraceID:    s.traceID,
		Operation:  s.operation,
		Status:     string(AuditStatusSuccess),
		DurationMS: float64(s.tracer.now().Sub(s.started)) / float64(time.Millisecond),
		StartedAt:  s.started,
	}
	if err != nil {
		entry.Status = string(AuditStatusError)
		entry.Error = err.Error()
	}
	s.tracer.mu.Lock()
	defer s.tracer.mu.Unlock()
	s.tracer.entries = append(s.tracer.entries, entry)
	if s.tracer.enc != nil {
		_ = s.tracer.enc.Encode(entry)
	}
}

// JSONAuditRecorder writes each audit entry as a JSON line.
type JSONAuditRecorder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONAuditRecorder returns an audit recorder writing to w.
func NewJSONAuditRecorder(w io.Writer) *JSONAuditRecorder {
	return &JSONAuditRecorder{enc: json.NewEncoder(w)}
}

type auditLine struct {
	Operation  string    `json:"operation"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
	TraceID    string    `json:"trace_id,omitempty"`
}

// Record implements AuditRecorder.
func (r *JSONAuditRecorder) Record(ctx context.Context, entry AuditEntry) {
	line := auditLine{
		Operation:  entry.Operation,
		Entity:     string(entry.Entity),
		Action:     string(entry.Action),
		EntityID:   entry.EntityID,
		Status:     string(entry.Status),
		Error:      entry.Error,
		DurationMS: float64(entry.Duration) / float64(time.Millisecond),
		Timestamp:  entry.Timestamp,
	}
	line.TraceID, _ = TraceID(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.enc.Encode(line)
}
