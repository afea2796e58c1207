package domain

import (
	"strings"
	"time"
)

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "Uncategorized"

// Product represents a catalogue entry. Stock, unitsSold and lastUpdated are
// mutated in place by sale and restock operations; everything else is fixed at
// creation.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	Category     string    `json:"category"`
	Cost         float64   `json:"cost"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	ReorderPoint int       `json:"reorderPoint"`
	UnitsSold    int       `json:"unitsSold"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// ProductDraft carries the caller-supplied fields for a new product.
type ProductDraft struct {
	Name         string
	SKU          string
	Category     string
	Cost         float64
	Price        float64
	Stock        int
	ReorderPoint int
}

// NewProduct validates and normalizes a draft into a Product. The SKU is
// stored uppercase and trimmed; a blank category falls back to
// DefaultCategory. Validation failures name the offending field.
func NewProduct(id string, draft ProductDraft, now time.Time) (Product, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return Product{}, &ValidationError{Field: "name", Message: "product name is required"}
	}

	sku := strings.TrimSpace(draft.SKU)
	if sku == "" {
		return Product{}, &ValidationError{Field: "sku", Message: "sku is required"}
	}

	if draft.Cost < 0 {
		return Product{}, &ValidationError{Field: "cost", Message: "cost must be a non-negative number"}
	}

	if draft.Price <= 0 {
		return Product{}, &ValidationError{Field: "price", Message: "price must be greater than zero"}
	}

	if draft.Stock < 0 {
		return Product{}, &ValidationError{Field: "stock", Message: "starting stock must be zero or higher"}
	}

	if draft.ReorderPoint < 0 {
		return Product{}, &ValidationError{Field: "reorderPoint", Message: "reorder point must be zero or higher"}
	}

	category := strings.TrimSpace(draft.Category)
	if category == "" {
		category = DefaultCategory
	}

	return Product{
		ID:           id,
		Name:         name,
		SKU:          strings.ToUpper(sku),
		Category:     category,
		Cost:         draft.Cost,
		Price:        draft.Price,
		Stock:        draft.Stock,
		ReorderPoint: draft.ReorderPoint,
		UnitsSold:    0,
		LastUpdated:  now,
	}, nil
}

// ApplySale decrements stock and increments unitsSold for a sale of the given
// quantity. The product is left untouched when the quantity is invalid or
// exceeds the available stock.
func (p *Product) ApplySale(quantity int, now time.Time) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	if quantity > p.Stock {
		return ErrInsufficientStock
	}
	p.Stock -= quantity
	p.UnitsSold += quantity
	p.LastUpdated = now
	return nil
}

// ApplyRestock increments stock by the given quantity.
func (p *Product) ApplyRestock(quantity int, now time.Time) error {
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	p.Stock += quantity
	p.LastUpdated = now
	return nil
}

// LowOnStock reports whether the product is at or below its reorder point.
func (p Product) LowOnStock() bool {
	return p.Stock <= p.ReorderPoint
}
