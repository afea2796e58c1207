package store

import (
	"math"
	"time"

	"store-tracker/internal/domain"
	"store-tracker/internal/metrics"
)

// snapshotTrendFactors scale the seed totals into a plausible upward trend
// without real historical data, one step per week ending at the current
// instant.
var snapshotTrendFactors = []float64{0.72, 0.80, 0.88, 0.95, 1.00}

// SeedState builds the fixed demo dataset: six products, eighteen sales
// (three per product) folded into each product's unitsSold and lastUpdated,
// and a synthesized snapshot history ending at now.
func SeedState(now time.Time) domain.State {
	products := seedProducts()
	sales := seedSales()
	foldSalesIntoProducts(products, sales)
	return domain.State{
		Products:  products,
		Sales:     sales,
		Snapshots: seedSnapshots(products, sales, now),
	}
}

// foldSalesIntoProducts accumulates each seed sale into its product's
// unitsSold and advances lastUpdated to the latest sale date.
func foldSalesIntoProducts(products []domain.Product, sales []domain.SaleRecord) {
	index := make(map[string]int, len(products))
	for i, product := range products {
		index[product.ID] = i
	}
	for _, sale := range sales {
		i, ok := index[sale.ProductID]
		if !ok {
			continue
		}
		products[i].UnitsSold += sale.Quantity
		if sale.Date.After(products[i].LastUpdated) {
			products[i].LastUpdated = sale.Date
		}
	}
}

// seedSnapshots scales the current inventory value, revenue and profit by the
// trend factors at weekly intervals, rounding to whole units.
func seedSnapshots(products []domain.Product, sales []domain.SaleRecord, now time.Time) []domain.InventorySnapshot {
	inventoryValue := metrics.InventoryValue(products)
	revenue := metrics.Revenue(sales)
	profit := metrics.Profit(sales)

	snapshots := make([]domain.InventorySnapshot, 0, len(snapshotTrendFactors))
	for i, factor := range snapshotTrendFactors {
		weeksBack := len(snapshotTrendFactors) - 1 - i
		snapshots = append(snapshots, domain.InventorySnapshot{
			Date:           now.AddDate(0, 0, -weeksBack*7),
			InventoryValue: math.Round(inventoryValue * factor),
			RevenueToDate:  math.Round(revenue * factor),
			ProfitToDate:   math.Round(profit * factor),
		})
	}
	return snapshots
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:           "prd-balance-notebook",
			Name:         "Balance Notebook",
			SKU:          "STN-001",
			Category:     "Stationery",
			Cost:         8,
			Price:        20,
			Stock:        72,
			ReorderPoint: 30,
			LastUpdated:  seedInstant("2024-08-28T10:15:00Z"),
		},
		{
			ID:           "prd-lumen-desk-lamp",
			Name:         "Lumen Desk Lamp",
			SKU:          "LGT-214",
			Category:     "Lighting",
			Cost:         22,
			Price:        55,
			Stock:        36,
			ReorderPoint: 12,
			LastUpdated:  seedInstant("2024-08-24T13:30:00Z"),
		},
		{
			ID:           "prd-terracotta-planters",
			Name:         "Terracotta Planter Set",
			SKU:          "DEC-118",
			Category:     "Home Decor",
			Cost:         14,
			Price:        36,
			Stock:        58,
			ReorderPoint: 18,
			LastUpdated:  seedInstant("2024-08-26T09:20:00Z"),
		},
		{
			ID:           "prd-aerowire-charger",
			Name:         "Aerowire Charging Pad",
			SKU:          "ELC-332",
			Category:     "Electronics",
			Cost:         19,
			Price:        49,
			Stock:        44,
			ReorderPoint: 15,
			LastUpdated:  seedInstant("2024-08-27T11:05:00Z"),
		},
		{
			ID:           "prd-linen-throw",
			Name:         "Coastal Linen Throw",
			SKU:          "TXT-207",
			Category:     "Textiles",
			Cost:         28,
			Price:        75,
			Stock:        28,
			ReorderPoint: 10,
			LastUpdated:  seedInstant("2024-08-29T16:45:00Z"),
		},
		{
			ID:           "prd-coldbrew-kit",
			Name:         "Cold Brew Essentials Kit",
			SKU:          "KTC-041",
			Category:     "Kitchen",
			Cost:         15,
			Price:        42,
			Stock:        62,
			ReorderPoint: 20,
			LastUpdated:  seedInstant("2024-08-25T15:10:00Z"),
		},
	}
}

func seedSales() []domain.SaleRecord {
	return []domain.SaleRecord{
		{ID: "sale-001", ProductID: "prd-balance-notebook", Quantity: 40, Date: seedInstant("2024-08-12T09:00:00Z"), Revenue: 800, Profit: 480},
		{ID: "sale-002", ProductID: "prd-balance-notebook", Quantity: 35, Date: seedInstant("2024-08-20T10:15:00Z"), Revenue: 700, Profit: 420},
		{ID: "sale-003", ProductID: "prd-balance-notebook", Quantity: 30, Date: seedInstant("2024-08-28T10:15:00Z"), Revenue: 600, Profit: 360},
		{ID: "sale-004", ProductID: "prd-lumen-desk-lamp", Quantity: 15, Date: seedInstant("2024-08-10T11:30:00Z"), Revenue: 825, Profit: 495},
		{ID: "sale-005", ProductID: "prd-lumen-desk-lamp", Quantity: 12, Date: seedInstant("2024-08-18T13:30:00Z"), Revenue: 660, Profit: 396},
		{ID: "sale-006", ProductID: "prd-lumen-desk-lamp", Quantity: 18, Date: seedInstant("2024-08-24T13:30:00Z"), Revenue: 990, Profit: 594},
		{ID: "sale-007", ProductID: "prd-terracotta-planters", Quantity: 22, Date: seedInstant("2024-08-14T09:20:00Z"), Revenue: 792, Profit: 484},
		{ID: "sale-008", ProductID: "prd-terracotta-planters", Quantity: 18, Date: seedInstant("2024-08-21T09:20:00Z"), Revenue: 648, Profit: 396},
		{ID: "sale-009", ProductID: "prd-terracotta-planters", Quantity: 16, Date: seedInstant("2024-08-26T09:20:00Z"), Revenue: 576, Profit: 352},
		{ID: "sale-010", ProductID: "prd-aerowire-charger", Quantity: 30, Date: seedInstant("2024-08-09T08:30:00Z"), Revenue: 1470, Profit: 900},
		{ID: "sale-011", ProductID: "prd-aerowire-charger", Quantity: 24, Date: seedInstant("2024-08-18T11:05:00Z"), Revenue: 1176, Profit: 720},
		{ID: "sale-012", ProductID: "prd-aerowire-charger", Quantity: 27, Date: seedInstant("2024-08-27T11:05:00Z"), Revenue: 1323, Profit: 810},
		{ID: "sale-013", ProductID: "prd-linen-throw", Quantity: 12, Date: seedInstant("2024-08-15T16:45:00Z"), Revenue: 900, Profit: 564},
		{ID: "sale-014", ProductID: "prd-linen-throw", Quantity: 10, Date: seedInstant("2024-08-22T16:45:00Z"), Revenue: 750, Profit: 470},
		{ID: "sale-015", ProductID: "prd-linen-throw", Quantity: 16, Date: seedInstant("2024-08-29T16:45:00Z"), Revenue: 1200, Profit: 752},
		{ID: "sale-016", ProductID: "prd-coldbrew-kit", Quantity: 26, Date: seedInstant("2024-08-11T15:10:00Z"), Revenue: 1092, Profit: 702},
		{ID: "sale-017", ProductID: "prd-coldbrew-kit", Quantity: 32, Date: seedInstant("2024-08-20T15:10:00Z"), Revenue: 1344, Profit: 864},
		{ID: "sale-018", ProductID: "prd-coldbrew-kit", Quantity: 24, Date: seedInstant("2024-08-25T15:10:00Z"), Revenue: 1008, Profit: 648},
	}
}

func seedInstant(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic("invalid seed timestamp: " + value)
	}
	return t.UTC()
}
