package domain

import "time"

// SaleRecord is an immutable log entry for one sale transaction. Revenue and
// profit are frozen at creation from the product's price and cost at the time
// of sale and are never recomputed. ProductID is a weak reference: the
// referenced product may later be absent, and consumers must treat a lookup
// miss as an archived product rather than an error.
type SaleRecord struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
	Revenue   float64   `json:"revenue"`
	Profit    float64   `json:"profit"`
}

// NewSaleRecord freezes a sale of the given quantity against the product's
// current price and cost.
func NewSaleRecord(id string, product Product, quantity int, now time.Time) SaleRecord {
	return SaleRecord{
		ID:        id,
		ProductID: product.ID,
		Quantity:  quantity,
		Date:      now,
		Revenue:   float64(quantity) * product.Price,
		Profit:    float64(quantity) * (product.Price - product.Cost),
	}
}
