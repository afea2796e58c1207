package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"store-tracker/internal/events"
	"store-tracker/internal/persistence"
	"store-tracker/internal/store"
	"store-tracker/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testIDs struct {
	next int
}

func (g *testIDs) NewID() string {
	g.next++
	return fmt.Sprintf("test-id-%03d", g.next)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

type testEnv struct {
	router   *gin.Engine
	store    *store.Store
	eventBus *events.InMemoryEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	clock := &testClock{now: time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC)}
	s := store.New(&testIDs{}, clock, persistence.NewMemoryChannel(), logger)
	eventBus := events.NewEventPublisher()

	storeHandler := NewStoreHandler(logger, s, eventBus)
	dashboardHandler := NewDashboardHandler(logger, s, nil, 0)

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))

	v1 := router.Group("/api/v1")
	v1.GET("/products", dashboardHandler.ListProducts)
	v1.POST("/products", storeHandler.AddProduct)
	v1.POST("/products/:id/restock", storeHandler.Restock)
	v1.GET("/sales", dashboardHandler.ListSales)
	v1.POST("/sales", storeHandler.RecordSale)
	v1.GET("/snapshots", dashboardHandler.ListSnapshots)
	v1.GET("/dashboard/summary", dashboardHandler.Summary)
	v1.GET("/dashboard/highlights", dashboardHandler.Highlights)
	v1.GET("/dashboard/alerts", dashboardHandler.Alerts)
	v1.POST("/reset", storeHandler.Reset)

	return &testEnv{router: router, store: s, eventBus: eventBus}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target))
}

func TestAddProductEndpoint(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/products", AddProductRequest{
		Name:         "Walnut Bookend",
		SKU:          "dec-550",
		Category:     "Home Decor",
		Cost:         12,
		Price:        30,
		Stock:        20,
		ReorderPoint: 8,
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response ProductResponse
	decode(t, recorder, &response)
	assert.Equal(t, "test-id-001", response.ID)
	assert.Equal(t, "DEC-550", response.SKU)
	assert.Equal(t, 60.0, response.MarginPercent)
	assert.False(t, response.LowStock)

	require.Len(t, env.eventBus.Events(), 1)
	event, ok := env.eventBus.Events()[0].(events.ProductAddedEvent)
	require.True(t, ok)
	assert.Equal(t, "test-id-001", event.ProductID)
}

func TestAddProductEndpoint_ValidationNamesField(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/products", AddProductRequest{
		Name:  "Freebie",
		SKU:   "FRB-001",
		Price: 0,
		Stock: 10,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	decode(t, recorder, &response)
	assert.Equal(t, "ValidationError", response.Error)
	assert.Contains(t, response.Details, "price")

	assert.Len(t, env.store.Products(), 6)
	assert.Empty(t, env.eventBus.Events())
}

func TestAddProductEndpoint_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	decode(t, recorder, &response)
	assert.Equal(t, "InvalidRequest", response.Error)
}

func TestRecordSaleEndpoint(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/sales", RecordSaleRequest{
		ProductID: "prd-balance-notebook",
		Quantity:  5,
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response SaleResponse
	decode(t, recorder, &response)
	assert.Equal(t, "Balance Notebook", response.ProductName)
	assert.Equal(t, 100.0, response.Revenue)
	assert.Equal(t, 60.0, response.Profit)

	require.Len(t, env.eventBus.Events(), 1)
	event, ok := env.eventBus.Events()[0].(events.SaleRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, 67, event.StockRemaining)
}

func TestRecordSaleEndpoint_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/sales", RecordSaleRequest{
		ProductID: "prd-balance-notebook",
		Quantity:  10000,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	decode(t, recorder, &response)
	assert.Equal(t, "InsufficientStock", response.Error)
	assert.Contains(t, response.Details, "Available: 72")
	assert.Contains(t, response.Details, "Requested: 10000")

	assert.Empty(t, env.eventBus.Events())
}

func TestRecordSaleEndpoint_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/sales", RecordSaleRequest{
		ProductID: "prd-missing",
		Quantity:  1,
	})

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var response ErrorResponse
	decode(t, recorder, &response)
	assert.Equal(t, "ProductNotFound", response.Error)
	assert.Contains(t, response.Details, "prd-missing")
}

func TestRecordSaleEndpoint_InvalidQuantity(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/sales", RecordSaleRequest{
		ProductID: "prd-balance-notebook",
		Quantity:  0,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	decode(t, recorder, &response)
	assert.Equal(t, "ValidationError", response.Error)
	assert.Contains(t, response.Details, "quantity")
}

func TestRestockEndpoint(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/products/prd-linen-throw/restock", RestockRequest{
		Quantity: 25,
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response RestockResponse
	decode(t, recorder, &response)
	assert.True(t, response.Applied)
	require.NotNil(t, response.Product)
	assert.Equal(t, 53, response.Product.Stock)

	require.Len(t, env.eventBus.Events(), 1)
	event, ok := env.eventBus.Events()[0].(events.StockRestockedEvent)
	require.True(t, ok)
	assert.Equal(t, 53, event.NewStock)
}

func TestRestockEndpoint_UnknownProductIsQuietNoOp(t *testing.T) {
	env := newTestEnv(t)
	versionBefore := env.store.Version()

	recorder := env.do(t, http.MethodPost, "/api/v1/products/prd-missing/restock", RestockRequest{
		Quantity: 10,
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response RestockResponse
	decode(t, recorder, &response)
	assert.False(t, response.Applied)
	assert.Nil(t, response.Product)

	assert.Equal(t, versionBefore, env.store.Version())
	assert.Empty(t, env.eventBus.Events())
}

func TestRestockEndpoint_InvalidQuantity(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/v1/products/prd-linen-throw/restock", RestockRequest{
		Quantity: -5,
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	decode(t, recorder, &response)
	assert.Equal(t, "ValidationError", response.Error)
}

func TestResetEndpoint(t *testing.T) {
	env := newTestEnv(t)

	sale := env.do(t, http.MethodPost, "/api/v1/sales", RecordSaleRequest{
		ProductID: "prd-balance-notebook",
		Quantity:  5,
	})
	require.Equal(t, http.StatusCreated, sale.Code)

	recorder := env.do(t, http.MethodPost, "/api/v1/reset", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, env.store.Sales(), 18)
	assert.Len(t, env.store.Snapshots(), 5)

	resetEvents := env.eventBus.Events()
	_, ok := resetEvents[len(resetEvents)-1].(events.StoreResetEvent)
	assert.True(t, ok)
}
