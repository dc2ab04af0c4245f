package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SALESCORE_STORAGE_DRIVER", "fs")
	t.Setenv("SALESCORE_FS_ROOT", dir)
	t.Setenv("SALESCORE_STORAGE_KEY", "")
	t.Setenv("SALESCORE_LOG_LEVEL", "error")
	t.Setenv("SALESCORE_ID_STRATEGY", "uuid")
	t.Setenv("SALESCORE_METRICS", "")
	t.Setenv("SALESCORE_ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: salesctl %v\nerr: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data envelope, got %s", stdout)
	}
	return env
}

func data(env map[string]any) map[string]any {
	m, _ := env["data"].(map[string]any)
	return m
}

func TestSeedThenMigrateReportsCurrent(t *testing.T) {
	setupEnv(t)

	seeded := data(mustRun(t, "seed"))
	if seeded["key"] != "salescore-storage" || seeded["version"] != float64(6) {
		t.Fatalf("unexpected seed output %v", seeded)
	}
	migrated := data(mustRun(t, "migrate"))
	if migrated["outcome"] != "loaded" || migrated["storedVersion"] != float64(6) {
		t.Fatalf("unexpected migrate output %v", migrated)
	}
	if steps, _ := migrated["applied"].([]any); len(steps) != 0 {
		t.Fatalf("expected no migration steps, got %v", steps)
	}
}

func TestClientsAddListDelete(t *testing.T) {
	setupEnv(t)
	mustRun(t, "seed")

	added := data(mustRun(t, "clients", "add", "--name", "ООО Ромашка", "--city", "Казань", "--inn", "1655000000"))
	record, _ := added["record"].(map[string]any)
	id, _ := record["id"].(string)
	if id == "" {
		t.Fatalf("expected created client id, got %v", added)
	}

	listed := mustRun(t, "clients", "list", "--query", "ромашка")
	clients, _ := listed["data"].([]any)
	if len(clients) != 1 || clients[0].(map[string]any)["id"] != id {
		t.Fatalf("expected query to find the new client, got %v", listed["data"])
	}

	deleted := data(mustRun(t, "clients", "delete", id))
	if deleted["deleted"] != true {
		t.Fatalf("expected delete, got %v", deleted)
	}
	again := data(mustRun(t, "clients", "delete", id))
	if again["deleted"] != false {
		t.Fatalf("expected no-op delete, got %v", again)
	}
}

func TestOrdersFlow(t *testing.T) {
	setupEnv(t)
	mustRun(t, "seed")

	added := data(mustRun(t, "orders", "add", "--client", "1", "--item", "p4:2", "--item", "p1:1:100:10", "--delivery", "10"))
	record, _ := added["record"].(map[string]any)
	id, _ := record["id"].(string)
	if !strings.HasPrefix(id, "ORD-") {
		t.Fatalf("expected sequential order id, got %v", added)
	}
	if added["total"] != float64(2*160+90+10) {
		t.Fatalf("unexpected total %v", added["total"])
	}

	status := data(mustRun(t, "orders", "status", id, "shipped", "--note", "courier"))
	updated, _ := status["record"].(map[string]any)
	if history, _ := updated["statusHistory"].([]any); len(history) != 2 {
		t.Fatalf("expected two history entries, got %v", updated["statusHistory"])
	}

	totals := data(mustRun(t, "orders", "total", id))
	if totals["total"] != added["total"] || totals["paid"] != float64(0) {
		t.Fatalf("unexpected totals %v", totals)
	}

	if _, _, err := runCLI(t, []string{"orders", "total", "ORD-9999"}); err == nil {
		t.Fatalf("expected not found error")
	}
	if _, _, err := runCLI(t, []string{"orders", "status", id, "lost"}); err == nil {
		t.Fatalf("expected unknown status error")
	}
	if _, _, err := runCLI(t, []string{"orders", "add", "--client", "1", "--item", "p1"}); err == nil {
		t.Fatalf("expected malformed item error")
	}
}

func TestStockTransferAndShow(t *testing.T) {
	setupEnv(t)
	mustRun(t, "seed")

	before := data(mustRun(t, "metrics", "product", "p1"))
	moved := data(mustRun(t, "stock", "transfer", "--from", "w1", "--to", "w2", "--product", "p1", "--qty", "10"))
	if moved["moved"] != true {
		t.Fatalf("expected transfer, got %v", moved)
	}
	after := data(mustRun(t, "stock", "show", "p1"))
	if after["available"] != before["stock"] {
		t.Fatalf("transfer must preserve total stock: before %v after %v", before, after)
	}

	low := mustRun(t, "stock", "show")
	if lines, _ := low["data"].([]any); len(lines) == 0 {
		t.Fatalf("expected seeded low stock lines")
	}
}

func TestMetricsCommandsAndExporters(t *testing.T) {
	setupEnv(t)
	mustRun(t, "seed")

	client := data(mustRun(t, "metrics", "client", "1"))
	if rev, _ := client["revenue"].(float64); rev <= 0 {
		t.Fatalf("expected positive revenue, got %v", client)
	}
	unknown := data(mustRun(t, "metrics", "client", "missing"))
	if unknown["revenue"] != float64(0) || unknown["averageCheck"] != float64(0) {
		t.Fatalf("expected zero metrics for unknown client, got %v", unknown)
	}
	dash := data(mustRun(t, "metrics", "dashboard"))
	if _, ok := dash["Revenue"]; !ok {
		t.Fatalf("expected dashboard revenue, got %v", dash)
	}
	if _, _, err := runCLI(t, []string{"metrics", "employee", "nobody"}); err == nil {
		t.Fatalf("expected unknown employee error")
	}
	sales := mustRun(t, "metrics", "sales", "--period", "day", "--from", "2024-01-01", "--to", "2024-01-03")
	if buckets, _ := sales["data"].([]any); len(buckets) != 3 {
		t.Fatalf("expected three daily buckets, got %v", sales["data"])
	}

	_, stderr, err := runCLI(t, []string{"--metrics", "prometheus", "clients", "add", "--name", "Exported"})
	if err != nil {
		t.Fatalf("prometheus run: %v", err)
	}
	if !strings.Contains(string(stderr), `salescore_operations_total{operation="add_client",status="success"} 1`) {
		t.Fatalf("expected prometheus exposition on stderr, got:\n%s", stderr)
	}
	_, stderr, err = runCLI(t, []string{"--metrics", "expvar", "clients", "delete", "missing"})
	if err != nil {
		t.Fatalf("expvar run: %v", err)
	}
	if !strings.Contains(string(stderr), `"delete_client"`) {
		t.Fatalf("expected expvar snapshot on stderr, got:\n%s", stderr)
	}
	if _, _, err := runCLI(t, []string{"--metrics", "statsd", "metrics", "dashboard"}); err == nil {
		t.Fatalf("expected unknown exporter error")
	}
}

func TestTraceAndAuditFlags(t *testing.T) {
	setupEnv(t)
	_, stderr, err := runCLI(t, []string{"--trace", "--audit", "clients", "add", "--name", "Traced"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var span, audit map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(stderr)), "\n") {
		var entry map[string]any
		if json.Unmarshal([]byte(line), &entry) != nil || entry["operation"] != "add_client" {
			continue
		}
		if _, ok := entry["action"]; ok {
			audit = entry
		} else {
			span = entry
		}
	}
	if span == nil || span["status"] != "success" || span["trace_id"] == "" {
		t.Fatalf("expected trace span on stderr, got:\n%s", stderr)
	}
	if audit == nil || audit["entity"] != "client" || audit["action"] != "create" || audit["entity_id"] == "" {
		t.Fatalf("expected audit entry on stderr, got:\n%s", stderr)
	}
	if audit["trace_id"] != span["trace_id"] {
		t.Fatalf("audit and span trace ids differ: %v vs %v", audit["trace_id"], span["trace_id"])
	}

	_, stderr, err = runCLI(t, []string{"clients", "add", "--name", "Quiet"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(string(stderr), `"operation"`) {
		t.Fatalf("expected no trace or audit output without flags, got:\n%s", stderr)
	}
}
