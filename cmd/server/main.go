// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/api"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/api/middleware"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/cache"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/config"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/forecast"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/inventory"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/report"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository/postgres"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/service"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	calc, err := inventory.NewCalculator(cfg.Inventory.Params())
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid inventory parameters")
	}

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without cache")
		reportCache = cache.NewNoopReportCache()
	}

	inventoryService := service.NewInventoryService(
		repository.NewInventoryRepository(db, cfg.Inventory.DefaultLeadTimeDays),
		forecast.NewPostgresProvider(db),
		calc,
		report.NewAnalyzer(calc, cfg.Inventory.ReportOptions()),
		reportCache,
		cfg.Inventory.ForecastHorizonDays,
	)

	services := &api.Services{Inventory: inventoryService}
	if cfg.Cache.Enabled && cfg.Auth.RateLimitPerMinute > 0 {
		client, err := cache.NewRedisClient(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Rate limiter disabled")
		} else {
			defer client.Close()
			services.Limiter = middleware.NewRedisLimiter(client, cfg.Auth.RateLimitPerMinute, time.Minute)
		}
	}

	// Initialize HTTP server
	router := api.NewRouter(services, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Auth.APIKeys,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
