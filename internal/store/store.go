// Package store owns the mutable state of the tracker: the product
// catalogue, the append-only sale log, and the bounded snapshot history.
// Every mutating operation is all-or-nothing, serialized by a single mutex so
// the read-modify-append sequence of a sale can never interleave with another
// mutation on the same product.
package store

import (
	"context"
	"sync"

	"store-tracker/internal/commands"
	"store-tracker/internal/domain"
	"store-tracker/internal/metrics"
	"store-tracker/internal/persistence"

	"go.uber.org/zap"
)

// Store holds the current store state and applies the mutating operations.
// External collaborators only ever receive copies of its state.
type Store struct {
	mu       sync.Mutex
	products []domain.Product
	sales    []domain.SaleRecord
	history  domain.SnapshotHistory
	version  uint64

	ids     IDGenerator
	clock   Clock
	channel persistence.Channel
	logger  *zap.Logger
}

// New creates a Store, loading persisted state from the channel. Absent or
// unreadable state falls back to the seed dataset; a load failure is logged,
// never fatal.
func New(ids IDGenerator, clock Clock, channel persistence.Channel, logger *zap.Logger) *Store {
	if channel == nil {
		channel = persistence.NewMemoryChannel()
	}

	s := &Store{
		ids:     ids,
		clock:   clock,
		channel: channel,
		logger:  logger,
	}

	loaded, err := channel.Load(context.Background())
	if err != nil {
		logger.Warn("Failed to load persisted state, falling back to seed data", zap.Error(err))
		loaded = nil
	}
	if loaded == nil {
		seed := SeedState(clock.Now())
		s.setState(seed)
		s.persist(context.Background())
	} else {
		s.setState(*loaded)
	}

	return s
}

// AddProduct validates the draft, assigns a fresh identifier, appends the
// product and records a snapshot of the post-mutation state.
func (s *Store) AddProduct(ctx context.Context, cmd commands.AddProductCommand) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := domain.ProductDraft{
		Name:         cmd.Name,
		SKU:          cmd.SKU,
		Category:     cmd.Category,
		Cost:         cmd.Cost,
		Price:        cmd.Price,
		Stock:        cmd.Stock,
		ReorderPoint: cmd.ReorderPoint,
	}

	product, err := domain.NewProduct(s.ids.NewID(), draft, s.clock.Now())
	if err != nil {
		return domain.Product{}, err
	}

	s.products = append(s.products, product)
	s.commit(ctx)
	return product, nil
}

// RecordSale applies a sale against a product. The operation is strict: an
// unknown product or an oversell rejects with an error and leaves products,
// sales and snapshots untouched.
func (s *Store) RecordSale(ctx context.Context, cmd commands.RecordSaleCommand) (domain.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.Quantity <= 0 {
		return domain.SaleRecord{}, &domain.ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}

	i, ok := s.indexOf(cmd.ProductID)
	if !ok {
		return domain.SaleRecord{}, domain.ErrProductNotFound
	}

	now := s.clock.Now()

	// Freeze revenue/profit from the same pre-mutation read that the stock
	// check uses.
	sale := domain.NewSaleRecord(s.ids.NewID(), s.products[i], cmd.Quantity, now)

	if err := s.products[i].ApplySale(cmd.Quantity, now); err != nil {
		return domain.SaleRecord{}, err
	}

	s.sales = append(s.sales, sale)
	s.commit(ctx)
	return sale, nil
}

// Restock adds stock to an existing product. An unknown product id is a
// silent no-op: no error, no snapshot, no persisted change. The boolean
// reports whether the restock was applied.
func (s *Store) Restock(ctx context.Context, cmd commands.RestockCommand) (domain.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cmd.Quantity <= 0 {
		return domain.Product{}, false, &domain.ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}

	i, ok := s.indexOf(cmd.ProductID)
	if !ok {
		return domain.Product{}, false, nil
	}

	if err := s.products[i].ApplyRestock(cmd.Quantity, s.clock.Now()); err != nil {
		return domain.Product{}, false, err
	}

	s.commit(ctx)
	return s.products[i], true, nil
}

// Reset restores the seed dataset, including its synthesized snapshot
// history.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setState(SeedState(s.clock.Now()))
	s.version++
	s.persist(ctx)
}

// Products returns a copy of the catalogue.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Sales returns a copy of the sale log in append order.
func (s *Store) Sales() []domain.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SaleRecord, len(s.sales))
	copy(out, s.sales)
	return out
}

// Snapshots returns a copy of the snapshot history, oldest first.
func (s *Store) Snapshots() []domain.InventorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

// Version returns the structural version, incremented on every committed
// mutation. Read caches key on it.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// State returns a deep copy of the full persisted shape.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotState()
}

// View returns the state together with the version it belongs to, under one
// lock acquisition. Readers that key caches on the version must derive from
// this pair so a concurrent mutation cannot tear the two apart.
func (s *Store) View() (domain.State, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotState(), s.version
}

// indexOf resolves a product id to its catalogue position. Callers hold the
// mutex.
func (s *Store) indexOf(productID string) (int, bool) {
	for i := range s.products {
		if s.products[i].ID == productID {
			return i, true
		}
	}
	return 0, false
}

// commit finishes a successful mutation: appends a snapshot of the
// post-mutation view, bumps the version and persists. Callers hold the mutex.
func (s *Store) commit(ctx context.Context) {
	s.history.Append(metrics.BuildSnapshot(s.products, s.sales, s.clock.Now()))
	s.version++
	s.persist(ctx)
}

// persist saves the current state through the channel. Save failures are
// logged and otherwise ignored; the in-memory state remains authoritative.
func (s *Store) persist(ctx context.Context) {
	if err := s.channel.Save(ctx, s.snapshotState()); err != nil {
		s.logger.Warn("Failed to persist store state", zap.Error(err))
	}
}

func (s *Store) snapshotState() domain.State {
	return domain.State{
		Products:  append([]domain.Product(nil), s.products...),
		Sales:     append([]domain.SaleRecord(nil), s.sales...),
		Snapshots: s.history.Entries(),
	}
}

func (s *Store) setState(state domain.State) {
	s.products = append([]domain.Product(nil), state.Products...)
	s.sales = append([]domain.SaleRecord(nil), state.Sales...)
	s.history = domain.NewSnapshotHistory(state.Snapshots)
}
