package store

import (
	"testing"
	"time"

	"store-tracker/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedState_Shape(t *testing.T) {
	now := time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC)

	state := SeedState(now)

	assert.Len(t, state.Products, 6)
	assert.Len(t, state.Sales, 18)
	assert.Len(t, state.Snapshots, 5)
}

func TestSeedState_Totals(t *testing.T) {
	state := SeedState(time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, 4730.0, metrics.InventoryValue(state.Products))
	assert.Equal(t, 16854.0, metrics.Revenue(state.Sales))
	assert.Equal(t, 10407.0, metrics.Profit(state.Sales))
}

func TestSeedState_FoldsSalesIntoProducts(t *testing.T) {
	state := SeedState(time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC))

	unitsSold := make(map[string]int, len(state.Products))
	lastUpdated := make(map[string]time.Time, len(state.Products))
	for _, product := range state.Products {
		unitsSold[product.ID] = product.UnitsSold
		lastUpdated[product.ID] = product.LastUpdated
	}

	assert.Equal(t, 105, unitsSold["prd-balance-notebook"])
	assert.Equal(t, 45, unitsSold["prd-lumen-desk-lamp"])
	assert.Equal(t, 56, unitsSold["prd-terracotta-planters"])
	assert.Equal(t, 81, unitsSold["prd-aerowire-charger"])
	assert.Equal(t, 38, unitsSold["prd-linen-throw"])
	assert.Equal(t, 82, unitsSold["prd-coldbrew-kit"])

	// lastUpdated advances to the latest sale for each product.
	assert.Equal(t, seedInstant("2024-08-28T10:15:00Z"), lastUpdated["prd-balance-notebook"])
	assert.Equal(t, seedInstant("2024-08-29T16:45:00Z"), lastUpdated["prd-linen-throw"])
}

func TestSeedState_UnitsSoldMatchesSaleLog(t *testing.T) {
	state := SeedState(time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC))

	sold := make(map[string]int)
	for _, sale := range state.Sales {
		sold[sale.ProductID] += sale.Quantity
	}
	for _, product := range state.Products {
		assert.Equal(t, sold[product.ID], product.UnitsSold, product.ID)
	}
}

func TestSeedState_SaleFiguresAreConsistent(t *testing.T) {
	state := SeedState(time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC))

	prices := make(map[string]float64)
	costs := make(map[string]float64)
	for _, product := range state.Products {
		prices[product.ID] = product.Price
		costs[product.ID] = product.Cost
	}

	for _, sale := range state.Sales {
		quantity := float64(sale.Quantity)
		assert.Equal(t, quantity*prices[sale.ProductID], sale.Revenue, sale.ID)
		assert.Equal(t, quantity*(prices[sale.ProductID]-costs[sale.ProductID]), sale.Profit, sale.ID)
	}
}

func TestSeedState_SnapshotTrend(t *testing.T) {
	now := time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC)

	state := SeedState(now)

	require.Len(t, state.Snapshots, 5)

	// Weekly intervals ending at now.
	for i, snapshot := range state.Snapshots {
		weeksBack := len(state.Snapshots) - 1 - i
		assert.Equal(t, now.AddDate(0, 0, -weeksBack*7), snapshot.Date)
	}

	// Oldest entry is the totals scaled by the first factor, rounded.
	assert.Equal(t, 3406.0, state.Snapshots[0].InventoryValue)  // round(4730 * 0.72)
	assert.Equal(t, 12135.0, state.Snapshots[0].RevenueToDate)  // round(16854 * 0.72)
	assert.Equal(t, 7493.0, state.Snapshots[0].ProfitToDate)    // round(10407 * 0.72)

	// Latest entry matches the unscaled totals.
	latest := state.Snapshots[len(state.Snapshots)-1]
	assert.Equal(t, 4730.0, latest.InventoryValue)
	assert.Equal(t, 16854.0, latest.RevenueToDate)
	assert.Equal(t, 10407.0, latest.ProfitToDate)
}
