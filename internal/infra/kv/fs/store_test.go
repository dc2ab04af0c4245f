package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"salescore/internal/kv/core"
)

func TestSanitizeKeyErrors(t *testing.T) {
	cases := []string{"", "  ", "../escape", "/abs", "a/../b"}
	for _, c := range cases {
		if _, err := sanitizeKey(c); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("expected invalid key for %q, got %v", c, err)
		}
	}
	if k, err := sanitizeKey("nested//state"); err != nil || k != "nested/state" {
		t.Fatalf("unexpected clean key %q err=%v", k, err)
	}
}

func TestFilesystemRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Driver() != core.DriverFilesystem || s.Root() != dir {
		t.Fatalf("unexpected store identity")
	}
	if _, ok, err := s.Get(ctx, "salescore-storage"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "salescore-storage", []byte(`{"version":6}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "salescore-storage", []byte(`{"version":7}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Get(ctx, "salescore-storage")
	if err != nil || !ok || string(got) != `{"version":7}` {
		t.Fatalf("get: %s ok=%v err=%v", got, ok, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, found %d entries", len(entries))
	}
	if err := s.Delete(ctx, "salescore-storage"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "salescore-storage"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "salescore-storage"); ok {
		t.Fatalf("expected removed")
	}
}

func TestFilesystemNestedKeysAndDefaults(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "deep", "root"))
	if err != nil {
		t.Fatalf("new nested root: %v", err)
	}
	if err := s.Put(ctx, "tenant/a/state", []byte("x")); err != nil {
		t.Fatalf("put nested: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deep", "root", "tenant", "a", "state")); err != nil {
		t.Fatalf("expected nested file: %v", err)
	}
	if err := s.Put(ctx, "../x", nil); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected traversal rejection, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestFilesystemReadError(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "adir"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, _, err := s.Get(context.Background(), "adir"); err == nil {
		t.Fatalf("expected error reading a directory")
	}
}
