package memory

import (
	"context"
	"errors"
	"testing"

	"salescore/internal/kv/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	value := []byte(`{"version":6}`)
	if err := s.Put(ctx, "k", value); err != nil {
		t.Fatalf("put: %v", err)
	}
	value[0] = 'X'
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"version":6}` {
		t.Fatalf("value aliased caller buffer: %s", got)
	}
	got[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	if again[0] != '{' {
		t.Fatalf("get returned shared buffer")
	}
	if err := s.Put(ctx, "k", []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if s.Puts() != 2 {
		t.Fatalf("expected 2 puts, got %d", s.Puts())
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMemoryStoreRejectsBlankKeys(t *testing.T) {
	s := New()
	if err := s.Put(context.Background(), " ", nil); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
	if _, _, err := s.Get(context.Background(), ""); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}
