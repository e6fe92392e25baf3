// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slayk/storefront-admin/internal/config"
	"github.com/slayk/storefront-admin/internal/handlers"
	"github.com/slayk/storefront-admin/internal/i18n"
	"github.com/slayk/storefront-admin/internal/middleware"
	"github.com/slayk/storefront-admin/internal/services"
	"github.com/slayk/storefront-admin/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	tokens := utils.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer)

	// Initialize services
	storageService, err := services.NewStorageService(cfg.AWS, cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Orders only notify when SMTP is configured.
	var notifier services.OrderNotifier
	if notificationService := services.NewNotificationService(cfg.Email); notificationService.Enabled() {
		notifier = notificationService
	}

	authService := services.NewAuthService(db, cfg.Auth, tokens)
	productService := services.NewProductService(db)
	categoryService := services.NewCategoryService(db)
	orderService := services.NewOrderService(db, cfg.Order, notifier)
	paymentService := services.NewPaymentService(db, cfg.Payment)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.PerSecond(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware())
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"version":   "1.0.0",
			"languages": i18n.GetSupportedLanguages(),
		})
	})

	authRequired := middleware.AuthRequired(tokens)
	adminOnly := []gin.HandlerFunc{authRequired, middleware.AdminRequired()}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			loginLimit := middleware.PerMinute(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)
			auth.POST("/login", loginLimit.Middleware(), authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/slug/:slug", productHandler.GetProductBySlug)
			products.GET("/:id", productHandler.GetProduct)

			protected := products.Group("")
			protected.Use(adminOnly...)
			{
				protected.POST("", productHandler.CreateProduct)
				protected.POST("/upload-images", productHandler.UploadImages)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.PATCH("/:id/stock", productHandler.UpdateStock)
			}
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)

			protected := categories.Group("")
			protected.Use(adminOnly...)
			{
				protected.POST("", categoryHandler.CreateCategory)
				protected.POST("/recount", categoryHandler.RecountCategories)
				protected.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		orders := api.Group("/orders")
		{
			// Checkout is public.
			orders.POST("", orderHandler.CreateOrder)
			orders.POST("/:id/payment-intent", orderHandler.CreatePaymentIntent)

			protected := orders.Group("")
			protected.Use(adminOnly...)
			{
				protected.GET("", orderHandler.ListOrders)
				protected.GET("/:id", orderHandler.GetOrder)
				protected.PUT("/:id", orderHandler.UpdateOrder)
				protected.DELETE("/:id", orderHandler.DeleteOrder)
				protected.POST("/:id/reconcile-stock", orderHandler.ReconcileStock)
			}
		}

		dashboard := api.Group("/dashboard")
		dashboard.Use(adminOnly...)
		{
			dashboard.GET("/stats", dashboardHandler.GetStats)
			dashboard.GET("/inventory", dashboardHandler.GetInventory)
		}
	}

	if storageService.IsLocal() {
		r.Static("/uploads", storageService.LocalPath())
	}

	return r, nil
}
