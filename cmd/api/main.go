package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store-tracker/internal/cache"
	"store-tracker/internal/config"
	"store-tracker/internal/events"
	"store-tracker/internal/handlers"
	"store-tracker/internal/persistence"
	"store-tracker/internal/store"
	"store-tracker/pkg/logger"
	"store-tracker/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("Starting Store Tracker",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("sqlite_path", cfg.SQLitePath),
	)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))

	// Persistence channel: SQLite when configured, in-memory otherwise
	var channel persistence.Channel
	if cfg.SQLitePath != "" {
		sqliteChannel, err := persistence.NewSQLiteChannel(cfg.SQLitePath, appLogger)
		if err != nil {
			appLogger.Warn("Failed to open SQLite database, state will not survive restarts", zap.Error(err))
			channel = persistence.NewMemoryChannel()
		} else {
			appLogger.Info("SQLite persistence initialized", zap.String("path", cfg.SQLitePath))
			channel = sqliteChannel
		}
	} else {
		appLogger.Warn("No SQLite path configured, using in-memory persistence")
		channel = persistence.NewMemoryChannel()
	}
	defer channel.Close()

	// Domain store with its injected capabilities
	domainStore := store.New(store.UUIDGenerator{}, store.SystemClock{}, channel, appLogger)
	appLogger.Info("Domain store initialized",
		zap.Int("products", len(domainStore.Products())),
		zap.Int("sales", len(domainStore.Sales())),
		zap.Int("snapshots", len(domainStore.Snapshots())),
	)

	// Read cache for dashboard aggregates (optional)
	var cacheClient cache.Cache
	if cfg.UseCache {
		cacheClient = cache.New(cfg, appLogger)
	} else {
		appLogger.Info("Cache disabled (USE_CACHE=false)")
	}

	// Event publisher: Kafka when enabled, in-memory fallback otherwise
	var eventBus events.EventPublisher
	if cfg.UseEvents {
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg, appLogger)
		if err != nil {
			appLogger.Warn("Failed to initialize Kafka publisher, using in-memory fallback", zap.Error(err))
			eventBus = events.NewEventPublisher()
		} else {
			appLogger.Info("Kafka event publisher initialized",
				zap.Strings("brokers", cfg.KafkaBrokers),
				zap.String("topic_catalog", cfg.KafkaTopicCatalog),
				zap.String("topic_stock", cfg.KafkaTopicStock),
			)
			defer kafkaPublisher.Close()
			eventBus = kafkaPublisher
		}
	} else {
		eventBus = events.NewEventPublisher()
	}

	// Initialize handlers
	storeHandler := handlers.NewStoreHandler(appLogger, domainStore, eventBus)
	dashboardHandler := handlers.NewDashboardHandler(appLogger, domainStore, cacheClient, time.Duration(cfg.CacheTTL)*time.Second)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		v1.GET("/products", dashboardHandler.ListProducts)
		v1.POST("/products", storeHandler.AddProduct)
		v1.POST("/products/:id/restock", storeHandler.Restock)

		v1.GET("/sales", dashboardHandler.ListSales)
		v1.POST("/sales", storeHandler.RecordSale)

		v1.GET("/snapshots", dashboardHandler.ListSnapshots)

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardHandler.Summary)
			dashboard.GET("/highlights", dashboardHandler.Highlights)
			dashboard.GET("/alerts", dashboardHandler.Alerts)
		}

		v1.POST("/reset", storeHandler.Reset)
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting store tracker API",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "store-tracker",
	})
}
