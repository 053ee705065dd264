package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/foodhub-backend/config"
	"github.com/ikkim/foodhub-backend/internal/app/controller"
	"github.com/ikkim/foodhub-backend/internal/app/repository"
	"github.com/ikkim/foodhub-backend/internal/app/service"
	"github.com/ikkim/foodhub-backend/internal/catalog"
	"github.com/ikkim/foodhub-backend/internal/db"
	"github.com/ikkim/foodhub-backend/internal/middleware"
	"github.com/ikkim/foodhub-backend/internal/router"
	"github.com/ikkim/foodhub-backend/internal/scheduler"
	"github.com/ikkim/foodhub-backend/internal/storage"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"github.com/ikkim/foodhub-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
		Service:     "foodhub-catalog",
	})

	logger.Info("Starting FoodHub catalog server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Catalog engine
	source := repository.NewCatalogSource(db.GetDB())
	assembler := catalog.NewAssembler(source, catalog.Options{
		DefaultTaxRate:          cfg.Catalog.DefaultTaxRate,
		RefillEmptyOptionGroups: cfg.Catalog.RefillEmptyOptionGroups,
		Concurrency:             cfg.Catalog.AssembleConcurrency,
	})
	catalogService := service.NewCatalogService(assembler)

	// Redis cache is optional: without it every request assembles
	if cfg.Catalog.CacheTTL > 0 {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, serving catalogs without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
			catalogService = service.NewCachedCatalogService(
				catalogService,
				redis.NewCache(redis.GetClient()),
				source,
				cfg.Catalog.CacheTTL,
			)
		}
	}

	// Snapshots go to S3 only when a bucket is configured
	var publisher service.SnapshotPublisher
	if cfg.S3.Bucket != "" {
		publisher = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
		logger.Info("Catalog snapshots enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"prefix": cfg.S3.SnapshotPrefix,
		})
	}

	warmService := service.NewCatalogWarmService(catalogService, source, publisher, cfg.S3.SnapshotPrefix)
	warmScheduler := scheduler.NewCatalogWarmScheduler(warmService, cfg.Catalog.WarmSchedule)
	if err := warmScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog warm scheduler", err)
	}
	defer warmScheduler.Stop()

	// HTTP
	catalogController := controller.NewCatalogController(catalogService)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	engine := router.NewRouter(catalogController, authMiddleware, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
