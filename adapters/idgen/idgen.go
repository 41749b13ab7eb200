// Package idgen provides ID generation implementations.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/artpar/primitives/ports"
)

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// New generates a new UUID v4.
func (UUID) New() string {
	return uuid.New().String()
}

// Ordered generates time-ordered (version 7) UUIDs with an optional prefix,
// so IDs of the same kind sort by creation.
type Ordered struct {
	Prefix string
}

// New generates a new prefixed UUID v7. It falls back to v4 if the
// random source fails.
func (o Ordered) New() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return o.Prefix + id.String()
}

// Sequential generates zero-padded sequential IDs (for testing).
type Sequential struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential ID generator.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New generates the next sequential ID.
func (s *Sequential) New() string {
	return fmt.Sprintf("%s%06d", s.prefix, s.counter.Add(1))
}

// Reset resets the counter (for testing).
func (s *Sequential) Reset() {
	s.counter.Store(0)
}

// Ensure interface compliance.
var (
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = Ordered{}
	_ ports.IDGenerator = (*Sequential)(nil)
)
