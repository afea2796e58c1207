package store

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces opaque unique identifiers for products and sales.
type IDGenerator interface {
	NewID() string
}

// Clock produces the current instant. Injected so tests can pin time.
type Clock interface {
	Now() time.Time
}

// UUIDGenerator is the default IDGenerator, backed by random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// SystemClock is the default Clock, reporting wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
