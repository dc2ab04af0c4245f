package ids

import (
	"errors"
	"strings"
	"testing"
)

func TestNewStrategies(t *testing.T) {
	u := New(StrategyUUID).NewID()
	if len(u) != 36 || strings.Count(u, "-") != 4 {
		t.Fatalf("expected uuid, got %q", u)
	}
	h := New(StrategyHex).NewID()
	if len(h) != 32 {
		t.Fatalf("expected 32 hex chars, got %q", h)
	}
	if New("bogus").NewID() == "" {
		t.Fatalf("expected fallback generator to produce an id")
	}
}

func TestUniqueRetriesOnCollision(t *testing.T) {
	seq := []string{"a", "a", "b"}
	i := 0
	gen := GeneratorFunc(func() string {
		id := seq[i]
		i++
		return id
	})
	taken := map[string]bool{"a": true}
	id, err := Unique(gen, func(s string) bool { return taken[s] })
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if id != "b" {
		t.Fatalf("expected b, got %q", id)
	}
}

func TestUniqueExhausted(t *testing.T) {
	gen := GeneratorFunc(func() string { return "same" })
	_, err := Unique(gen, func(string) bool { return true })
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestNextOrderID(t *testing.T) {
	if got := NextOrderID(0, nil); got != "ORD-0001" {
		t.Fatalf("expected ORD-0001, got %s", got)
	}
	taken := map[string]bool{"ORD-0003": true, "ORD-0004": true}
	if got := NextOrderID(2, func(id string) bool { return taken[id] }); got != "ORD-0005" {
		t.Fatalf("expected ORD-0005, got %s", got)
	}
}
