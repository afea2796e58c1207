package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// Store domain events. Published by the HTTP layer after a committed
// mutation; a publish failure never affects the committed state.
type ProductAddedEvent struct {
	ProductID  string    `json:"productId"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Stock      int       `json:"stock"`
	OccurredAt time.Time `json:"occurredAt"`
}

type SaleRecordedEvent struct {
	SaleID         string    `json:"saleId"`
	ProductID      string    `json:"productId"`
	Quantity       int       `json:"quantity"`
	Revenue        float64   `json:"revenue"`
	Profit         float64   `json:"profit"`
	StockRemaining int       `json:"stockRemaining"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type StockRestockedEvent struct {
	ProductID  string    `json:"productId"`
	SKU        string    `json:"sku"`
	Quantity   int       `json:"quantity"`
	NewStock   int       `json:"newStock"`
	OccurredAt time.Time `json:"occurredAt"`
}

type StoreResetEvent struct {
	OccurredAt time.Time `json:"occurredAt"`
}

// InMemoryEventPublisher collects events in memory. Used as the fallback when
// no broker is reachable and in tests.
type InMemoryEventPublisher struct {
	mu     sync.Mutex
	logger *zap.Logger
	events []interface{}
}

func NewEventPublisher() *InMemoryEventPublisher {
	return &InMemoryEventPublisher{
		logger: zap.NewNop(),
		events: make([]interface{}, 0),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.logger.Info("Event published (in-memory)", zap.Any("event", event))
	return nil
}

// Events returns the events published so far.
func (p *InMemoryEventPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interface{}, len(p.events))
	copy(out, p.events)
	return out
}
