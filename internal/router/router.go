// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmlink/backend/internal/config"
	"github.com/farmlink/backend/internal/handlers"
	"github.com/farmlink/backend/internal/middleware"
	"github.com/farmlink/backend/internal/services"
	"github.com/farmlink/backend/internal/store"
	"github.com/farmlink/backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	st := store.New(db)

	profileService := services.NewProfileService(st)
	statsService := services.NewStatsService(st)
	activityService := services.NewActivityService(st, statsService, profileService)
	authService := services.NewAuthService(st, cfg, profileService, activityService)
	productService := services.NewProductService(st, activityService)
	orderService := services.NewOrderService(st, activityService)
	weatherService := services.NewWeatherService(cfg)
	backupService := services.NewBackupService(st, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(profileService, activityService, statsService)
	activityHandler := handlers.NewActivityHandler(activityService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	weatherHandler := handlers.NewWeatherHandler(weatherService, activityService)
	backupHandler := handlers.NewBackupHandler(backupService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.GET("/dashboard", userHandler.GetDashboard)
			users.GET("/products", productHandler.Mine)
			users.POST("/achievements", userHandler.UnlockAchievement)
			users.POST("/reconcile", userHandler.ReconcileStats)
		}

		// Activity routes
		activities := v1.Group("/activities")
		activities.Use(middleware.AuthRequired())
		{
			activities.POST("", activityHandler.Track)
			activities.GET("", activityHandler.List)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.Search)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.Get)
			products.POST("/:id/view", middleware.OptionalAuth(), productHandler.View)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.Create)
				protected.PUT("/:id", productHandler.Update)
				protected.DELETE("/:id", productHandler.Delete)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("", orderHandler.Create)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
		}

		// Weather routes (public, activity tracked when authenticated)
		v1.GET("/weather", middleware.OptionalAuth(), weatherHandler.Current)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/backup", backupHandler.Export)
			admin.POST("/backup/restore", middleware.ImportRateLimit(), backupHandler.Import)
		}
	}

	return r
}
