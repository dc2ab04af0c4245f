package s3

import (
	"context"
	"errors"
	"testing"

	"salescore/internal/kv/core"
)

func TestS3StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	rt := &MockTransport{objects: make(map[string][]byte)}
	store, err := newMockStore(rt, "/tenant/")
	if err != nil {
		t.Fatalf("new mock store: %v", err)
	}
	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	if _, ok, err := store.Get(ctx, "salescore-storage"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	payload := `{"version":6,"state":{}}`
	if err := store.Put(ctx, "salescore-storage", []byte(payload)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := rt.objects["tenant/salescore-storage"]; !ok {
		t.Fatalf("expected prefixed object key, have %v", rt.requests)
	}
	got, ok, err := store.Get(ctx, "salescore-storage")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != payload {
		t.Fatalf("unexpected payload %q", got)
	}
	if err := store.Delete(ctx, "salescore-storage"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "salescore-storage"); ok {
		t.Fatalf("expected removal")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestS3StoreErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, Config{}); err == nil {
		t.Fatalf("expected bucket required error")
	}
	store := NewMockForTests()
	if err := store.Put(ctx, "", nil); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}

	rt := &MockTransport{objects: make(map[string][]byte), fail: true}
	failing, err := newMockStore(rt, "")
	if err != nil {
		t.Fatalf("new failing store: %v", err)
	}
	if _, _, err := failing.Get(ctx, "k"); err == nil {
		t.Fatalf("expected get error on access denied")
	}
}

func TestDecodeChunked(t *testing.T) {
	if got, ok := decodeChunked([]byte("5\r\nhello\r\n0\r\nx-amz-checksum-crc32:abc\r\n\r\n")); !ok || string(got) != "hello" {
		t.Fatalf("unexpected decode %q ok=%v", got, ok)
	}
	if _, ok := decodeChunked([]byte(`{"plain":true}`)); ok {
		t.Fatalf("plain payload should not decode")
	}
}
