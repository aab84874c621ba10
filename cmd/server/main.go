// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/shopstock/backend-go/internal/api"
	"github.com/andresuchdata/shopstock/backend-go/internal/cache"
	"github.com/andresuchdata/shopstock/backend-go/internal/config"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository/memory"
	"github.com/andresuchdata/shopstock/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/shopstock/backend-go/internal/service"
	"github.com/andresuchdata/shopstock/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	repo := buildRepository(cfg)

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, running without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	services := &api.Services{
		Inventory: service.NewInventoryService(repo, dashboardCache),
		Customers: service.NewCustomerService(repo),
		Orders:    service.NewOrderService(repo, dashboardCache),
		Dashboard: service.NewDashboardService(repo, dashboardCache),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildRepository(cfg *config.Config) repository.Repository {
	if cfg.Storage.Driver == "memory" {
		logger.Log.Info().Msg("Using seeded in-memory store")
		return memory.NewSeeded()
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	return postgres.NewStore(db)
}
