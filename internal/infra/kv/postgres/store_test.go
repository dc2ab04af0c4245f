package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"salescore/internal/infra/kv/postgres/testutil"
	"salescore/internal/kv/core"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	var gotDriver, gotDSN string
	restore := OverrideSQLOpen(func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return db, nil
	})
	t.Cleanup(restore)
	store, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gotDriver != defaultDriver || gotDSN != defaultDSN {
		t.Fatalf("unexpected open args %q %q", gotDriver, gotDSN)
	}
	return store, conn
}

func TestNewStoreEnsuresTable(t *testing.T) {
	store, conn := newStubStore(t)
	if store.Driver() != core.DriverPostgres || store.DB() == nil {
		t.Fatalf("unexpected store identity")
	}
	var sawDDL bool
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS KV") {
			sawDDL = true
		}
	}
	if !sawDDL {
		t.Fatalf("expected kv DDL, got %v", conn.Execs)
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if _, ok, err := store.Get(ctx, "salescore-storage"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, "salescore-storage", []byte(`{"version":5}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "salescore-storage", []byte(`{"version":6}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Put(ctx, "other", []byte(`x`)); err != nil {
		t.Fatalf("put other: %v", err)
	}
	if rows := conn.Rows("kv"); len(rows) != 2 {
		t.Fatalf("expected upsert to keep one row per key, got %d", len(rows))
	}
	got, ok, err := store.Get(ctx, "salescore-storage")
	if err != nil || !ok || string(got) != `{"version":6}` {
		t.Fatalf("get: %s ok=%v err=%v", got, ok, err)
	}
	if err := store.Delete(ctx, "salescore-storage"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "salescore-storage"); ok {
		t.Fatalf("expected removal")
	}
	if _, ok, _ := store.Get(ctx, "other"); !ok {
		t.Fatalf("delete removed unrelated key")
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if err := store.Put(ctx, "", nil); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
	conn.FailExec = true
	if err := store.Put(ctx, "k", []byte("v")); err == nil {
		t.Fatalf("expected exec failure")
	}
	if err := store.Delete(ctx, "k"); err == nil {
		t.Fatalf("expected delete failure")
	}
	conn.FailExec = false
	conn.FailQuery = true
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Fatalf("expected query failure")
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := New(context.Background(), "postgres://example"); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestNewStoreOpenFailure(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("nope") })
	defer restore()
	if _, err := New(context.Background(), "postgres://example"); err == nil {
		t.Fatalf("expected open failure")
	}
}
