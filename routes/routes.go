package routes

import (
	"time"

	"loyalty-backend/config"
	"loyalty-backend/handlers"
	"loyalty-backend/middleware"
	"loyalty-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// limitOrDefault guards against zero-valued configs built outside
// env.Parse, which would otherwise reject every request.
func limitOrDefault(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.AppConfig) {
	// Core services
	pointService := &services.PointService{DB: db}
	exchangeService := &services.ExchangeService{DB: db}
	linkService := &services.VendorLinkService{DB: db}
	vendorExchangeService := &services.VendorExchangeService{
		DB:            db,
		Links:         linkService,
		AppFeePercent: cfg.AppTransferFeePercent,
	}

	// Handlers
	authHandler := &handlers.AuthHandler{DB: db}
	providerHandler := &handlers.ProviderHandler{DB: db}
	pointHandler := &handlers.PointHandler{DB: db, Points: pointService}
	exchangeHandler := &handlers.ExchangeHandler{DB: db, Exchange: exchangeService}
	vendorHandler := &handlers.VendorHandler{DB: db, Links: linkService, VendorExchange: vendorExchangeService}

	authLimiter := middleware.NewRateLimiter(limitOrDefault(cfg.AuthRateLimit, 10), time.Minute)
	exchangeLimiter := middleware.NewRateLimiter(limitOrDefault(cfg.ExchangeRateLimit, 30), time.Minute)

	api := r.Group("/api/v1")
	{
		// Auth routes
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)

		// Public provider catalog
		api.GET("/providers", providerHandler.GetProviders)
		api.GET("/providers/:slug", providerHandler.GetProvider)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		// Customer self-service
		protected.GET("/points/balance", pointHandler.GetBalance)
		protected.GET("/points/transactions", pointHandler.GetTransactions)
		protected.POST("/points/exchange/preview", exchangeHandler.PreviewExchange)
		protected.POST("/points/exchange", exchangeLimiter.Middleware(), exchangeHandler.ExchangePoints)
	}

	// Provider-scoped customer operations (vendor or admin role)
	scoped := api.Group("/providers/:slug/customers/:id")
	scoped.Use(middleware.AuthMiddleware())
	scoped.Use(middleware.VendorMiddleware())
	{
		scoped.GET("/points", pointHandler.GetCustomerBalance)
		scoped.GET("/transactions", pointHandler.GetCustomerTransactions)
		scoped.POST("/points/award", pointHandler.AwardPoints)
		scoped.POST("/points/deduct", pointHandler.DeductPoints)
		scoped.POST("/points/adjust", pointHandler.AdjustPoints)
	}

	// Vendor linking and cross-account exchange
	vendor := api.Group("/vendor")
	vendor.Use(middleware.AuthMiddleware())
	vendor.Use(middleware.VendorMiddleware())
	{
		vendor.POST("/links", vendorHandler.CreateLink)
		vendor.GET("/links", vendorHandler.ListLinks)
		vendor.POST("/exchange/preview", vendorHandler.PreviewExchange)
		vendor.POST("/exchange", exchangeLimiter.Middleware(), vendorHandler.ExchangePoints)
	}

	// Provider management (admin only)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/providers", providerHandler.CreateProvider)
		admin.PUT("/providers/:slug", providerHandler.UpdateProvider)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
