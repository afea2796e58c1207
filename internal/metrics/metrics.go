// Package metrics derives dashboard figures from a products/sales view. Every
// function is pure: no mutation, no hidden state, deterministic for identical
// inputs. The store builds its snapshots through BuildSnapshot so persisted
// valuations can never diverge from what these functions report.
package metrics

import (
	"sort"
	"time"

	"store-tracker/internal/domain"
)

// InventoryValue sums cost x stock over all products.
func InventoryValue(products []domain.Product) float64 {
	total := 0.0
	for _, product := range products {
		total += product.Cost * float64(product.Stock)
	}
	return total
}

// Revenue sums the frozen revenue of all sales.
func Revenue(sales []domain.SaleRecord) float64 {
	total := 0.0
	for _, sale := range sales {
		total += sale.Revenue
	}
	return total
}

// Profit sums the frozen profit of all sales.
func Profit(sales []domain.SaleRecord) float64 {
	total := 0.0
	for _, sale := range sales {
		total += sale.Profit
	}
	return total
}

// MarginPercent returns (price - cost) / price as a percentage. Products are
// validated to price > 0 at creation; a zero price yields 0 rather than NaN
// for data that bypassed validation.
func MarginPercent(product domain.Product) float64 {
	if product.Price == 0 {
		return 0
	}
	return (product.Price - product.Cost) / product.Price * 100
}

// AverageMargin returns the arithmetic mean of MarginPercent across all
// products, or 0 for an empty catalogue.
func AverageMargin(products []domain.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	total := 0.0
	for _, product := range products {
		total += MarginPercent(product)
	}
	return total / float64(len(products))
}

// LowStock returns the products at or below their reorder point, ordered by
// ascending stock so the most urgent come first.
func LowStock(products []domain.Product) []domain.Product {
	low := make([]domain.Product, 0)
	for _, product := range products {
		if product.LowOnStock() {
			low = append(low, product)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Stock < low[j].Stock
	})
	return low
}

// OutOfStock returns the products with zero stock.
func OutOfStock(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0)
	for _, product := range products {
		if product.Stock == 0 {
			out = append(out, product)
		}
	}
	return out
}

// ProductPerformance aggregates the sales of one product.
type ProductPerformance struct {
	Product domain.Product
	Revenue float64
	Profit  float64
	Units   int
}

// PerProduct groups sales by referenced product, summing revenue, profit and
// units. Orphaned sales whose product no longer exists are excluded silently.
// The result preserves the order in which products are first encountered in
// the sale log.
func PerProduct(products []domain.Product, sales []domain.SaleRecord) []ProductPerformance {
	byID := make(map[string]domain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	index := make(map[string]int)
	grouped := make([]ProductPerformance, 0)
	for _, sale := range sales {
		product, ok := byID[sale.ProductID]
		if !ok {
			continue
		}
		i, seen := index[sale.ProductID]
		if !seen {
			i = len(grouped)
			index[sale.ProductID] = i
			grouped = append(grouped, ProductPerformance{Product: product})
		}
		grouped[i].Revenue += sale.Revenue
		grouped[i].Profit += sale.Profit
		grouped[i].Units += sale.Quantity
	}
	return grouped
}

// TopByRevenue returns the product with the highest aggregated revenue. The
// second return is false when no sale matches an existing product.
func TopByRevenue(products []domain.Product, sales []domain.SaleRecord) (ProductPerformance, bool) {
	return top(products, sales, func(a, b ProductPerformance) bool {
		return a.Revenue > b.Revenue
	})
}

// TopByProfit returns the product with the highest aggregated profit.
func TopByProfit(products []domain.Product, sales []domain.SaleRecord) (ProductPerformance, bool) {
	return top(products, sales, func(a, b ProductPerformance) bool {
		return a.Profit > b.Profit
	})
}

// TopByUnits returns the product with the most units sold across the log.
func TopByUnits(products []domain.Product, sales []domain.SaleRecord) (ProductPerformance, bool) {
	return top(products, sales, func(a, b ProductPerformance) bool {
		return a.Units > b.Units
	})
}

// top ranks the per-product aggregates with a stable descending sort, so ties
// resolve to the first-encountered product.
func top(products []domain.Product, sales []domain.SaleRecord, less func(a, b ProductPerformance) bool) (ProductPerformance, bool) {
	grouped := PerProduct(products, sales)
	if len(grouped) == 0 {
		return ProductPerformance{}, false
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return less(grouped[i], grouped[j])
	})
	return grouped[0], true
}

// RecentSales returns up to limit sales ordered most recent first.
func RecentSales(sales []domain.SaleRecord, limit int) []domain.SaleRecord {
	recent := make([]domain.SaleRecord, len(sales))
	copy(recent, sales)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// BuildSnapshot values the inventory and rolls up cumulative revenue and
// profit at the given instant.
func BuildSnapshot(products []domain.Product, sales []domain.SaleRecord, at time.Time) domain.InventorySnapshot {
	return domain.InventorySnapshot{
		Date:           at,
		InventoryValue: InventoryValue(products),
		RevenueToDate:  Revenue(sales),
		ProfitToDate:   Profit(sales),
	}
}
