// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/api/handlers"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/api/middleware"
)

type Services struct {
	Inventory handlers.InventoryService
	// Limiter is optional; nil disables rate limiting.
	Limiter middleware.Limiter
}

type RouterOptions struct {
	AllowedOrigins []string
	APIKeys        []string
}

func NewRouter(services *Services, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		inventoryGroup := apiGroup.Group("/restaurants/:restaurant_id/inventory")
		inventoryGroup.Use(middleware.APIKeyAuth(opts.APIKeys))
		if services.Limiter != nil {
			inventoryGroup.Use(middleware.RateLimit(services.Limiter))
		}
		{
			inventoryGroup.GET("/items/:item_id/recommendation", inventoryHandler.GetRecommendation)
			inventoryGroup.GET("/items/:item_id/optimize", inventoryHandler.GetOptimization)
			inventoryGroup.POST("/batch-recommendations", inventoryHandler.BatchRecommendations)

			// Batch report sections
			inventoryGroup.GET("/reorder-summary", inventoryHandler.GetReorderSummary)
			inventoryGroup.GET("/status", inventoryHandler.GetStatusReport)
			inventoryGroup.GET("/cost-analysis", inventoryHandler.GetCostAnalysis)
			inventoryGroup.GET("/waste-insights", inventoryHandler.GetWasteInsights)
			inventoryGroup.DELETE("/report-cache", inventoryHandler.InvalidateReports)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.APIKeyHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
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
