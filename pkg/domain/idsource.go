package domain

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints identifiers for records created by the arbitration core.
// Injected into each component so tests can run in isolation without shared
// global counters.
type IDSource interface {
	NewID() uuid.UUID
}

// RandomIDSource mints random (v4) UUIDs. The default in production wiring.
type RandomIDSource struct{}

func (RandomIDSource) NewID() uuid.UUID { return uuid.New() }

// SequentialIDSource mints deterministic, strictly increasing UUIDs. Intended
// for tests that assert on identifier ordering or stable fixtures.
type SequentialIDSource struct {
	counter atomic.Uint64
}

func (s *SequentialIDSource) NewID() uuid.UUID {
	n := s.counter.Add(1)
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], n)
	return id
}
