// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blanjago/blanja-backend/internal/config"
	"github.com/blanjago/blanja-backend/internal/handlers"
	"github.com/blanjago/blanja-backend/internal/middleware"
	"github.com/blanjago/blanja-backend/internal/services"
	"github.com/blanjago/blanja-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db)
	reviewService := services.NewReviewService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Authentication routes
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// Product routes
	products := r.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)

		// Seller-only routes
		protected := products.Group("")
		protected.Use(middleware.AuthRequired(), middleware.ConfirmedUserRequired(), middleware.SellerRequired())
		{
			protected.POST("", productHandler.CreateProduct)
			protected.PATCH("/:id", productHandler.UpdateProduct)
			protected.DELETE("/:id", productHandler.DeleteProduct)
		}
	}

	// Review routes
	review := r.Group("/review")
	{
		review.GET("/:productId", reviewHandler.GetReviewsByProduct)
		review.POST("", middleware.AuthRequired(), middleware.ConfirmedUserRequired(), reviewHandler.AddReview)
		review.PATCH("/:id", reviewHandler.UpdateReview)
		review.DELETE("/:id", reviewHandler.DeleteReview)
	}

	// The trusted creation path stays off the public routing table; it is
	// registered for internal tooling in development only.
	if cfg.Environment == "development" {
		r.POST("/internal/review", reviewHandler.CreateReview)
	}

	return r
}
