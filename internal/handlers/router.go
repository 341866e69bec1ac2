package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/cache"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// NewRouter builds the API engine with the standard middleware chain and
// every route registered.
func NewRouter(db *gorm.DB, store cache.Store) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogging(),
		middleware.ErrorHandler(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		}),
	)
	RegisterRoutes(router, db, store)
	return router
}

// RegisterRoutes wires all API routes onto the engine. Each route class
// gets its own rate limit and cache class. Capability checks run before
// the cache and the handler, so a policy denial can never produce a
// handler side effect or a cached body.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, store cache.Store) {
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db)
	analyticsService := services.NewAnalyticsService(db)

	authHandler := NewAuthHandler(userService)
	categoryHandler := NewCategoryHandler(categoryService, store)
	transactionHandler := NewTransactionHandler(transactionService, store)
	analyticsHandler := NewAnalyticsHandler(analyticsService)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimiter(middleware.GeneralLimit))

	auth := api.Group("/auth", middleware.RateLimiter(middleware.AuthLimit))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api.GET("/profile",
		middleware.AuthMiddleware(),
		middleware.RequireCapability(middleware.CapRead),
		middleware.Cached(store, cache.Profile),
		authHandler.GetProfile,
	)

	categories := api.Group("/categories", middleware.AuthMiddleware())
	{
		read := categories.Group("",
			middleware.RequireCapability(middleware.CapRead),
			middleware.Cached(store, cache.Categories),
		)
		read.GET("", categoryHandler.ListCategories)
		read.GET("/:id", categoryHandler.GetCategory)

		manage := categories.Group("", middleware.RequireCapability(middleware.CapManageCategories))
		manage.POST("", categoryHandler.CreateCategory)
		manage.PUT("/:id", categoryHandler.UpdateCategory)
		manage.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	transactions := api.Group("/transactions",
		middleware.AuthMiddleware(),
		middleware.RateLimiter(middleware.TransactionsLimit),
	)
	{
		read := transactions.Group("",
			middleware.RequireCapability(middleware.CapRead),
			middleware.Cached(store, cache.Transactions),
		)
		read.GET("", transactionHandler.ListTransactions)
		read.GET("/:id", transactionHandler.GetTransaction)

		write := transactions.Group("", middleware.RequireCapability(middleware.CapWriteTransactions))
		write.POST("", transactionHandler.CreateTransaction)
		write.PUT("/:id", transactionHandler.UpdateTransaction)
		write.DELETE("/:id", transactionHandler.DeleteTransaction)
	}

	analyticsRoutes := api.Group("/analytics",
		middleware.AuthMiddleware(),
		middleware.RateLimiter(middleware.AnalyticsLimit),
		middleware.RequireCapability(middleware.CapRead),
		middleware.Cached(store, cache.Analytics),
	)
	{
		analyticsRoutes.GET("/overview", analyticsHandler.GetOverview)
		analyticsRoutes.GET("/expenses-by-category", analyticsHandler.GetExpensesByCategory)
		analyticsRoutes.GET("/monthly-trends", analyticsHandler.GetMonthlyTrends)
		analyticsRoutes.GET("/spending-patterns", analyticsHandler.GetSpendingPatterns)
		analyticsRoutes.GET("/recent-transactions", analyticsHandler.GetRecentTransactions)
	}
}
