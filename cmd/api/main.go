package main

import (
	"context"
	"fmt"
	"os"
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/validator"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker: users record income and expense transactions against a shared category catalog and read cached analytics over their history.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig())
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	store, err := newCacheStore(appConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to cache: %w", err)
	}

	validator.Register()

	router := handlers.NewRouter(dbManager.DB(), store)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Infof("Starting Fintrack API server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// newCacheStore picks the cache backend: Redis when an address is
// configured, otherwise an in-process store good for a single instance.
func newCacheStore(cfg *config.Config) (cache.Store, error) {
	if cfg.RedisAddr == "" {
		logger.Get().Info("REDIS_ADDR not set, using in-process cache")
		return cache.NewMemoryStore(), nil
	}

	store := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	logger.Get().Infof("Connected to Redis at %s", cfg.RedisAddr)
	return store, nil
}
