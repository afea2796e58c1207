package commands

// AddProductCommand represents a command to add a product to the catalogue
type AddProductCommand struct {
	Name         string
	SKU          string
	Category     string
	Cost         float64
	Price        float64
	Stock        int
	ReorderPoint int
}

// RecordSaleCommand represents a command to record a sale against a product
type RecordSaleCommand struct {
	ProductID string
	Quantity  int
}

// RestockCommand represents a command to add stock to an existing product
type RestockCommand struct {
	ProductID string
	Quantity  int
}
