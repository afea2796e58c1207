package handlers

import "time"

// AddProductRequest is the payload for creating a catalogue entry. Numeric
// fields are validated by the domain so rejections name the offending field.
type AddProductRequest struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Category     string  `json:"category"`
	Cost         float64 `json:"cost"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	ReorderPoint int     `json:"reorderPoint"`
}

// RecordSaleRequest is the payload for logging a sale.
type RecordSaleRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// RestockRequest is the payload for adding stock to a product.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// ProductResponse is the read model for a catalogue entry.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Category      string    `json:"category"`
	Cost          float64   `json:"cost"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	ReorderPoint  int       `json:"reorderPoint"`
	UnitsSold     int       `json:"unitsSold"`
	MarginPercent float64   `json:"marginPercent"`
	LowStock      bool      `json:"lowStock"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// SaleResponse is the read model for a sale log entry. ProductName resolves
// the weak product reference; an absent product renders as archived.
type SaleResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date"`
	Revenue     float64   `json:"revenue"`
	Profit      float64   `json:"profit"`
}

// SnapshotResponse is the read model for one inventory valuation.
type SnapshotResponse struct {
	Date           time.Time `json:"date"`
	InventoryValue float64   `json:"inventoryValue"`
	RevenueToDate  float64   `json:"revenueToDate"`
	ProfitToDate   float64   `json:"profitToDate"`
}

// SummaryResponse carries the headline dashboard figures.
type SummaryResponse struct {
	InventoryValue float64 `json:"inventoryValue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalProfit    float64 `json:"totalProfit"`
	AverageMargin  float64 `json:"averageMargin"`
	ProductCount   int     `json:"productCount"`
	SaleCount      int     `json:"saleCount"`
	LowStockCount  int     `json:"lowStockCount"`
	OutOfStock     int     `json:"outOfStockCount"`
}

// PerformerResponse describes one top-performing product.
type PerformerResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
	Units       int     `json:"units"`
}

// HighlightsResponse lists the leaders by revenue, profit and sales velocity.
// A nil leader means no sale matches an existing product yet.
type HighlightsResponse struct {
	RevenueLeader  *PerformerResponse `json:"revenueLeader"`
	ProfitLeader   *PerformerResponse `json:"profitLeader"`
	VelocityLeader *PerformerResponse `json:"velocityLeader"`
}

// AlertsResponse partitions the low-stock set for the alerts panel.
type AlertsResponse struct {
	OutOfStock     []ProductResponse `json:"outOfStock"`
	NeedsAttention []ProductResponse `json:"needsAttention"`
}

// RestockResponse reports the outcome of a restock. Applied is false when the
// product id did not resolve; the operation is a silent no-op in that case.
type RestockResponse struct {
	Applied bool             `json:"applied"`
	Product *ProductResponse `json:"product,omitempty"`
}

// ErrorResponse mirrors the standardized error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}
