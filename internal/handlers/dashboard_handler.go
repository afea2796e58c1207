package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"store-tracker/internal/cache"
	"store-tracker/internal/metrics"
	"store-tracker/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// archivedProductName labels sales whose product no longer exists in the
// catalogue. A dangling reference is a normal case, not an error.
const archivedProductName = "Archived product"

// DashboardHandler serves the read-only query surface: catalogue, sale log,
// snapshot history, and the derived dashboard aggregates. Aggregate
// responses are cached under keys that embed the store version, so a cache
// entry can never outlive the state it was computed from.
type DashboardHandler struct {
	logger   *zap.Logger
	store    *store.Store
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewDashboardHandler(logger *zap.Logger, s *store.Store, cacheClient cache.Cache, cacheTTL time.Duration) *DashboardHandler {
	return &DashboardHandler{
		logger:   logger,
		store:    s,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
	}
}

// ListProducts handles GET /api/v1/products
func (h *DashboardHandler) ListProducts(c *gin.Context) {
	products := h.store.Products()
	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = toProductResponse(product)
	}
	c.JSON(http.StatusOK, gin.H{
		"products": responses,
		"total":    len(responses),
	})
}

// ListSales handles GET /api/v1/sales. The optional limit query caps the
// result to the most recent entries.
func (h *DashboardHandler) ListSales(c *gin.Context) {
	limit := -1
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	state, _ := h.store.View()
	names := make(map[string]string, len(state.Products))
	for _, product := range state.Products {
		names[product.ID] = product.Name
	}

	sales := metrics.RecentSales(state.Sales, limit)
	responses := make([]SaleResponse, len(sales))
	for i, sale := range sales {
		name, ok := names[sale.ProductID]
		if !ok {
			name = archivedProductName
		}
		responses[i] = SaleResponse{
			ID:          sale.ID,
			ProductID:   sale.ProductID,
			ProductName: name,
			Quantity:    sale.Quantity,
			Date:        sale.Date,
			Revenue:     sale.Revenue,
			Profit:      sale.Profit,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": responses,
		"total": len(responses),
	})
}

// ListSnapshots handles GET /api/v1/snapshots
func (h *DashboardHandler) ListSnapshots(c *gin.Context) {
	snapshots := h.store.Snapshots()
	responses := make([]SnapshotResponse, len(snapshots))
	for i, snapshot := range snapshots {
		responses[i] = SnapshotResponse{
			Date:           snapshot.Date,
			InventoryValue: snapshot.InventoryValue,
			RevenueToDate:  snapshot.RevenueToDate,
			ProfitToDate:   snapshot.ProfitToDate,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshots": responses,
		"total":     len(responses),
	})
}

// Summary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	// State and version come from one View call; reading them separately
	// could cache a newer state under an older version key.
	state, version := h.store.View()
	cacheKey := fmt.Sprintf("dashboard:summary:v%d", version)
	if h.cache != nil {
		var cached SummaryResponse
		if err := cache.GetJSON(c.Request.Context(), h.cache, cacheKey, &cached); err == nil {
			h.logger.Debug("Cache hit", zap.String("key", cacheKey))
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products := state.Products
	sales := state.Sales

	response := SummaryResponse{
		InventoryValue: metrics.InventoryValue(products),
		TotalRevenue:   metrics.Revenue(sales),
		TotalProfit:    metrics.Profit(sales),
		AverageMargin:  metrics.AverageMargin(products),
		ProductCount:   len(products),
		SaleCount:      len(sales),
		LowStockCount:  len(metrics.LowStock(products)),
		OutOfStock:     len(metrics.OutOfStock(products)),
	}

	h.storeInCache(c, cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// Highlights handles GET /api/v1/dashboard/highlights
func (h *DashboardHandler) Highlights(c *gin.Context) {
	state, version := h.store.View()
	cacheKey := fmt.Sprintf("dashboard:highlights:v%d", version)
	if h.cache != nil {
		var cached HighlightsResponse
		if err := cache.GetJSON(c.Request.Context(), h.cache, cacheKey, &cached); err == nil {
			h.logger.Debug("Cache hit", zap.String("key", cacheKey))
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products := state.Products
	sales := state.Sales

	response := HighlightsResponse{}
	if leader, ok := metrics.TopByRevenue(products, sales); ok {
		response.RevenueLeader = toPerformerResponse(leader)
	}
	if leader, ok := metrics.TopByProfit(products, sales); ok {
		response.ProfitLeader = toPerformerResponse(leader)
	}
	if leader, ok := metrics.TopByUnits(products, sales); ok {
		response.VelocityLeader = toPerformerResponse(leader)
	}

	h.storeInCache(c, cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// Alerts handles GET /api/v1/dashboard/alerts
func (h *DashboardHandler) Alerts(c *gin.Context) {
	low := metrics.LowStock(h.store.Products())

	response := AlertsResponse{
		OutOfStock:     make([]ProductResponse, 0),
		NeedsAttention: make([]ProductResponse, 0),
	}
	for _, product := range low {
		if product.Stock == 0 {
			response.OutOfStock = append(response.OutOfStock, toProductResponse(product))
		} else {
			response.NeedsAttention = append(response.NeedsAttention, toProductResponse(product))
		}
	}

	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) storeInCache(c *gin.Context, key string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := cache.SetJSON(c.Request.Context(), h.cache, key, value, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

func toPerformerResponse(performance metrics.ProductPerformance) *PerformerResponse {
	return &PerformerResponse{
		ProductID:   performance.Product.ID,
		ProductName: performance.Product.Name,
		Revenue:     performance.Revenue,
		Profit:      performance.Profit,
		Units:       performance.Units,
	}
}
