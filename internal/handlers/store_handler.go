package handlers

import (
	"net/http"

	"store-tracker/internal/commands"
	"store-tracker/internal/domain"
	"store-tracker/internal/events"
	"store-tracker/internal/metrics"
	"store-tracker/internal/store"
	apperrors "store-tracker/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StoreHandler serves the mutating operations: add product, record sale,
// restock, reset. Domain events are published after the store has committed;
// a publish failure is logged and never rolls anything back.
type StoreHandler struct {
	logger   *zap.Logger
	store    *store.Store
	eventBus events.EventPublisher
}

func NewStoreHandler(logger *zap.Logger, s *store.Store, eventBus events.EventPublisher) *StoreHandler {
	return &StoreHandler{
		logger:   logger,
		store:    s,
		eventBus: eventBus,
	}
}

// AddProduct handles POST /api/v1/products
func (h *StoreHandler) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	product, err := h.store.AddProduct(c.Request.Context(), commands.AddProductCommand{
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		Cost:         req.Cost,
		Price:        req.Price,
		Stock:        req.Stock,
		ReorderPoint: req.ReorderPoint,
	})
	if err != nil {
		c.Error(h.mapDomainError(err, "", 0))
		return
	}

	h.publish(c, events.ProductAddedEvent{
		ProductID:  product.ID,
		SKU:        product.SKU,
		Name:       product.Name,
		Category:   product.Category,
		Stock:      product.Stock,
		OccurredAt: product.LastUpdated,
	})

	h.logger.Info("Product added",
		zap.String("product_id", product.ID),
		zap.String("sku", product.SKU),
	)
	c.JSON(http.StatusCreated, toProductResponse(product))
}

// RecordSale handles POST /api/v1/sales
func (h *StoreHandler) RecordSale(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	sale, err := h.store.RecordSale(c.Request.Context(), commands.RecordSaleCommand{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.Error(h.mapDomainError(err, req.ProductID, req.Quantity))
		return
	}

	stockRemaining := 0
	productName := ""
	for _, product := range h.store.Products() {
		if product.ID == sale.ProductID {
			stockRemaining = product.Stock
			productName = product.Name
			break
		}
	}

	h.publish(c, events.SaleRecordedEvent{
		SaleID:         sale.ID,
		ProductID:      sale.ProductID,
		Quantity:       sale.Quantity,
		Revenue:        sale.Revenue,
		Profit:         sale.Profit,
		StockRemaining: stockRemaining,
		OccurredAt:     sale.Date,
	})

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
	)
	c.JSON(http.StatusCreated, SaleResponse{
		ID:          sale.ID,
		ProductID:   sale.ProductID,
		ProductName: productName,
		Quantity:    sale.Quantity,
		Date:        sale.Date,
		Revenue:     sale.Revenue,
		Profit:      sale.Profit,
	})
}

// Restock handles POST /api/v1/products/:id/restock
func (h *StoreHandler) Restock(c *gin.Context) {
	productID := c.Param("id")

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request", zap.Error(err))
		c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	product, applied, err := h.store.Restock(c.Request.Context(), commands.RestockCommand{
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.Error(h.mapDomainError(err, productID, req.Quantity))
		return
	}

	if !applied {
		// Unknown product id: deliberately a quiet no-op, surfaced honestly.
		h.logger.Info("Restock skipped for unknown product", zap.String("product_id", productID))
		c.JSON(http.StatusOK, RestockResponse{Applied: false})
		return
	}

	h.publish(c, events.StockRestockedEvent{
		ProductID:  product.ID,
		SKU:        product.SKU,
		Quantity:   req.Quantity,
		NewStock:   product.Stock,
		OccurredAt: product.LastUpdated,
	})

	h.logger.Info("Stock replenished",
		zap.String("product_id", product.ID),
		zap.Int("quantity", req.Quantity),
		zap.Int("new_stock", product.Stock),
	)
	response := toProductResponse(product)
	c.JSON(http.StatusOK, RestockResponse{Applied: true, Product: &response})
}

// Reset handles POST /api/v1/reset
func (h *StoreHandler) Reset(c *gin.Context) {
	h.store.Reset(c.Request.Context())

	h.publish(c, events.StoreResetEvent{OccurredAt: h.store.Snapshots()[len(h.store.Snapshots())-1].Date})

	h.logger.Info("Store reset to seed data")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StoreHandler) publish(c *gin.Context, event interface{}) {
	if err := h.eventBus.Publish(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to publish event", zap.Error(err))
	}
}

// mapDomainError translates store/domain failures into the standardized
// error vocabulary rendered by the error handler middleware.
func (h *StoreHandler) mapDomainError(err error, productID string, requested int) *apperrors.StandardError {
	switch e := err.(type) {
	case *domain.ValidationError:
		return apperrors.NewValidationError(e.Message, e.Field)
	case *domain.DomainError:
		switch err {
		case domain.ErrProductNotFound:
			return apperrors.NewProductNotFound(productID)
		case domain.ErrInsufficientStock:
			available := 0
			for _, product := range h.store.Products() {
				if product.ID == productID {
					available = product.Stock
					break
				}
			}
			return apperrors.NewInsufficientStock(available, requested)
		}
	}
	return apperrors.NewInternalError("operation failed", err)
}

func toProductResponse(product domain.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		SKU:           product.SKU,
		Category:      product.Category,
		Cost:          product.Cost,
		Price:         product.Price,
		Stock:         product.Stock,
		ReorderPoint:  product.ReorderPoint,
		UnitsSold:     product.UnitsSold,
		MarginPercent: metrics.MarginPercent(product),
		LowStock:      product.LowOnStock(),
		LastUpdated:   product.LastUpdated,
	}
}
