package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/triorate/triorate-backend/config"
	"github.com/triorate/triorate-backend/internal/app/controller"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/app/service"
	"github.com/triorate/triorate-backend/internal/cache"
	"github.com/triorate/triorate-backend/internal/db"
	"github.com/triorate/triorate-backend/internal/middleware"
	"github.com/triorate/triorate-backend/internal/router"
	"github.com/triorate/triorate-backend/internal/scheduler"
	"github.com/triorate/triorate-backend/internal/storage"
	"github.com/triorate/triorate-backend/internal/websocket"
	"github.com/triorate/triorate-backend/pkg/logger"
	"github.com/triorate/triorate-backend/pkg/notify/discord"
	"github.com/triorate/triorate-backend/pkg/redis"
)

const cacheTTL = 15 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting TRIORATE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
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

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; without it the app serves straight from Postgres
	// and token revocation is disabled.
	var entityCache *cache.EntityCache
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, running without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
		entityCache = cache.NewEntityCache(redis.GetClient(), cacheTTL)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	entityRepo := repository.NewEntityRepository(db.GetDB())

	// Live review feed
	hub := websocket.NewHub()
	go hub.Run()

	// Discord announcements (nil when no webhook is configured)
	webhook := discord.NewClient(cfg.Discord.WebhookURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	entityService := service.NewEntityService(entityRepo, entityCache)
	reviewService := service.NewReviewService(entityRepo, entityCache, hub, webhook)
	exportService := service.NewExportService(entityRepo)

	// S3 presigned uploads for catalog imagery
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	entityController := controller.NewEntityController(entityService)
	reviewController := controller.NewReviewController(reviewService)
	feedController := controller.NewFeedController(hub)
	uploadController := controller.NewUploadController(s3Storage)
	exportController := controller.NewExportController(exportService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Cache re-warm scheduler
	var catalogScheduler *scheduler.CatalogScheduler
	if entityCache != nil {
		catalogScheduler = scheduler.NewCatalogScheduler(entityService)
		if err := catalogScheduler.Start(); err != nil {
			logger.Warn("Catalog scheduler failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Setup router
	r := router.NewRouter(
		authController,
		entityController,
		reviewController,
		feedController,
		uploadController,
		exportController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if catalogScheduler != nil {
		catalogScheduler.Stop()
	}
	logger.Info("Server stopped successfully")
}
