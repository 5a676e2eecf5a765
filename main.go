package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortify-be/internal/cache"
	"shortify-be/internal/config"
	"shortify-be/internal/controllers"
	"shortify-be/internal/database"
	"shortify-be/internal/logger"
	"shortify-be/internal/middleware"
	"shortify-be/internal/repository"
	"shortify-be/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			zlog.Warn("failed to connect to Redis, continuing without cache", zap.Error(err))
			cacheClient = nil
		} else {
			zlog.Info("connected to Redis cache")
		}
	}

	// Initialize repositories
	urlRepo := repository.NewURLRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	// Initialize services
	analyticsService := service.NewAnalyticsService(urlRepo, analyticsRepo, zlog, cfg.BaseURL)
	urlService := service.NewURLService(urlRepo, analyticsService, cacheClient, zlog,
		cfg.BaseURL, cfg.CodeLength, cfg.CodeMaxAttempts)

	// Start the expiration sweeper, stopped by SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := service.NewSweeper(urlRepo, zlog, cfg.SweepInterval)
	go sweeper.Run(ctx)

	// Initialize controllers
	shortenerController := controllers.NewShortenerController(urlService, analyticsService)
	qrcodeController := controllers.NewQRCodeController(cfg.BaseURL)

	// Initialize rate limiters (redirects get a more lenient window)
	apiRateLimiter := middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	redirectRateLimiter := middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitRedirectMax)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog))

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Redirect endpoint with lenient rate limiting
	router.GET("/:identifier", redirectRateLimiter.LimitMiddleware(), shortenerController.RedirectToURL)

	// API v1 routes with general rate limiting and API key usage tracking
	api := router.Group("/api/v1")
	api.Use(apiRateLimiter.LimitMiddleware())
	api.Use(middleware.APIKeyUsage(apiKeyRepo, zlog))
	{
		api.POST("/shorten", shortenerController.CreateShortURL)
		api.GET("/urls", shortenerController.ListURLs)
		api.GET("/search", shortenerController.SearchURLs)
		api.GET("/url/:identifier", shortenerController.GetURLStats)
		api.POST("/url/:identifier/verify", shortenerController.VerifyPassword)
		api.DELETE("/url/:identifier", shortenerController.DeleteURL)

		// Public resolve endpoint returning JSON instead of a 301
		api.GET("/redirect/:identifier", shortenerController.GetOriginalURLPublic)

		// QR Code generation
		api.GET("/qrcode/:identifier", qrcodeController.GenerateQRCode)
	}

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
