package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"store-tracker/internal/domain"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteChannel persists the store state in SQLite. A mutex enforces the
// single-writer principle: Save replaces the whole state inside one
// transaction, so a reload always observes a complete, committed state.
type SQLiteChannel struct {
	db     *sql.DB
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSQLiteChannel opens (or creates) the database at path and initializes
// the schema.
func NewSQLiteChannel(path string, logger *zap.Logger) (*SQLiteChannel, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &SQLiteChannel{
		db:     db,
		logger: logger,
	}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return c, nil
}

func (c *SQLiteChannel) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		position INTEGER PRIMARY KEY,
		id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		sku TEXT NOT NULL,
		category TEXT NOT NULL,
		cost REAL NOT NULL,
		price REAL NOT NULL,
		stock INTEGER NOT NULL,
		reorder_point INTEGER NOT NULL,
		units_sold INTEGER NOT NULL,
		last_updated TEXT NOT NULL,
		CHECK(cost >= 0),
		CHECK(price > 0),
		CHECK(stock >= 0),
		CHECK(reorder_point >= 0),
		CHECK(units_sold >= 0)
	);

	CREATE TABLE IF NOT EXISTS sales (
		position INTEGER PRIMARY KEY,
		id TEXT UNIQUE NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		date TEXT NOT NULL,
		revenue REAL NOT NULL,
		profit REAL NOT NULL,
		CHECK(quantity > 0)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		position INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		inventory_value REAL NOT NULL,
		revenue_to_date REAL NOT NULL,
		profit_to_date REAL NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Load reads the full state. Returns (nil, nil) when the database holds no
// state yet.
func (c *SQLiteChannel) Load(ctx context.Context) (*domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := domain.State{
		Products:  make([]domain.Product, 0),
		Sales:     make([]domain.SaleRecord, 0),
		Snapshots: make([]domain.InventorySnapshot, 0),
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, name, sku, category, cost, price, stock, reorder_point, units_sold, last_updated
		FROM products ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product domain.Product
		var lastUpdated string
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.SKU,
			&product.Category,
			&product.Cost,
			&product.Price,
			&product.Stock,
			&product.ReorderPoint,
			&product.UnitsSold,
			&lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		product.LastUpdated, err = parseInstant(lastUpdated)
		if err != nil {
			return nil, err
		}
		state.Products = append(state.Products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	saleRows, err := c.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, date, revenue, profit
		FROM sales ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	defer saleRows.Close()

	for saleRows.Next() {
		var sale domain.SaleRecord
		var date string
		if err := saleRows.Scan(
			&sale.ID,
			&sale.ProductID,
			&sale.Quantity,
			&date,
			&sale.Revenue,
			&sale.Profit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sale.Date, err = parseInstant(date)
		if err != nil {
			return nil, err
		}
		state.Sales = append(state.Sales, sale)
	}
	if err := saleRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	snapshotRows, err := c.db.QueryContext(ctx, `
		SELECT date, inventory_value, revenue_to_date, profit_to_date
		FROM snapshots ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	defer snapshotRows.Close()

	for snapshotRows.Next() {
		var snapshot domain.InventorySnapshot
		var date string
		if err := snapshotRows.Scan(
			&date,
			&snapshot.InventoryValue,
			&snapshot.RevenueToDate,
			&snapshot.ProfitToDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshot.Date, err = parseInstant(date)
		if err != nil {
			return nil, err
		}
		state.Snapshots = append(state.Snapshots, snapshot)
	}
	if err := snapshotRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	if len(state.Products) == 0 && len(state.Sales) == 0 && len(state.Snapshots) == 0 {
		return nil, nil
	}

	return &state, nil
}

// Save replaces the persisted state with the given one in a single
// transaction.
func (c *SQLiteChannel) Save(ctx context.Context, state domain.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"products", "sales", "snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, product := range state.Products {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (position, id, name, sku, category, cost, price, stock, reorder_point, units_sold, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			i,
			product.ID,
			product.Name,
			product.SKU,
			product.Category,
			product.Cost,
			product.Price,
			product.Stock,
			product.ReorderPoint,
			product.UnitsSold,
			formatInstant(product.LastUpdated),
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}

	for i, sale := range state.Sales {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sales (position, id, product_id, quantity, date, revenue, profit)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			i,
			sale.ID,
			sale.ProductID,
			sale.Quantity,
			formatInstant(sale.Date),
			sale.Revenue,
			sale.Profit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}
	}

	for i, snapshot := range state.Snapshots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (position, date, inventory_value, revenue_to_date, profit_to_date)
			VALUES (?, ?, ?, ?, ?)
		`,
			i,
			formatInstant(snapshot.Date),
			snapshot.InventoryValue,
			snapshot.RevenueToDate,
			snapshot.ProfitToDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *SQLiteChannel) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
