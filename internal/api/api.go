package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockguard/internal/api/handlers"
	"github.com/andresuchdata/stockguard/internal/api/middleware"
	"github.com/andresuchdata/stockguard/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	InventoryService *service.InventoryService
	RebalanceService *service.RebalanceService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
			storesGroup := apiGroup.Group("/stores")
			{
				storesGroup.GET("", inventoryHandler.GetStores)
				storesGroup.GET("/:store_id/products", inventoryHandler.GetStoreProducts)
				storesGroup.GET("/:store_id/alerts", inventoryHandler.GetStoreAlerts)
				storesGroup.GET("/:store_id/insights", inventoryHandler.GetStoreInsights)
			}
			apiGroup.GET("/analytics/overview", inventoryHandler.GetOverview)
		}

		if services.RebalanceService != nil {
			rebalanceHandler := handlers.NewRebalanceHandler(services.RebalanceService)
			rebalanceGroup := apiGroup.Group("/rebalance")
			{
				rebalanceGroup.GET("/suggestions", rebalanceHandler.GetSuggestions)
				rebalanceGroup.POST("/execute", rebalanceHandler.ExecuteTransfer)
				rebalanceGroup.GET("/transfers", rebalanceHandler.GetTransfers)
			}

			warehouseGroup := apiGroup.Group("/warehouse")
			{
				warehouseGroup.GET("/orders", rebalanceHandler.GetWarehouseOrders)
				warehouseGroup.POST("/place-order", rebalanceHandler.PlaceOrder)
				warehouseGroup.GET("/placed-orders", rebalanceHandler.GetPlacedOrders)
			}

			apiGroup.GET("/emergency/dashboard", rebalanceHandler.GetEmergencyDashboard)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
