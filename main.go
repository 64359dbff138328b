package main

import (
	"log"
	"net/http"

	"pns-delivery-api/config"
	"pns-delivery-api/handlers"
	"pns-delivery-api/ledger"
	"pns-delivery-api/middleware"
	"pns-delivery-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Volatile store: everything resets on process restart
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := config.Seed(db, logger); err != nil {
		logger.Fatal("Failed to seed demo data", zap.Error(err))
	}

	orderLedger := ledger.New(db, logger)
	h := handlers.New(db, orderLedger, logger, cfg)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "PN'S Delivery API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🛵 Welcome to the PN'S Delivery API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"user", "restaurant", "delivery", "admin"},
		})
	})

	routes.SetupRoutes(r, h)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
