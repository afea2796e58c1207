package persistence

import (
	"context"
	"sync"

	"store-tracker/internal/domain"
)

// Channel persists the full store state. Load returns (nil, nil) when no
// state has been saved yet; callers fall back to the seed dataset on absence
// or on a load error, never treating either as fatal.
type Channel interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state domain.State) error
	Close() error
}

// MemoryChannel is an in-memory Channel used in tests and as a fallback when
// no database path is configured.
type MemoryChannel struct {
	mu    sync.Mutex
	state *domain.State
}

// NewMemoryChannel creates an empty in-memory channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{}
}

func (c *MemoryChannel) Load(ctx context.Context) (*domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil, nil
	}
	state := c.state.Clone()
	return &state, nil
}

func (c *MemoryChannel) Save(ctx context.Context, state domain.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := state.Clone()
	c.state = &clone
	return nil
}

func (c *MemoryChannel) Close() error {
	return nil
}
