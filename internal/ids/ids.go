// Package ids produces opaque record identifiers for the store.
package ids

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Strategy names a random id scheme.
type Strategy string

const (
	StrategyUUID Strategy = "uuid" // RFC 4122 v4 via google/uuid
	StrategyHex  Strategy = "hex"  // 128 random bits, hex encoded
)

// maxAttempts bounds the collision retry loop in Unique.
const maxAttempts = 8

// ErrExhausted is returned when Unique cannot find a free id.
var ErrExhausted = errors.New("ids: no free identifier after retries")

// Generator returns a fresh random identifier on each call.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

// NewID implements Generator.
func (f GeneratorFunc) NewID() string { return f() }

// New returns the generator for strategy. Unknown strategies fall back to uuid.
func New(strategy Strategy) Generator {
	if strategy == StrategyHex {
		return GeneratorFunc(newHexID)
	}
	return GeneratorFunc(uuid.NewString)
}

func newHexID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// Unique draws ids from gen until exists reports a free one.
func Unique(gen Generator, exists func(string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id := gen.NewID()
		if id == "" {
			continue
		}
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}

// OrderID formats the sequential order identifier for position n (1-based).
func OrderID(n int) string {
	return fmt.Sprintf("ORD-%04d", n)
}

// NextOrderID returns OrderID(count+1), advancing past any id already taken.
// Deleting orders shrinks the collection, so the length-derived id can point
// at a surviving order.
func NextOrderID(count int, exists func(string) bool) string {
	n := count + 1
	for exists != nil && exists(OrderID(n)) {
		n++
	}
	return OrderID(n)
}
