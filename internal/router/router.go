package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodhub-backend/config"
	"github.com/ikkim/foodhub-backend/internal/app/controller"
	"github.com/ikkim/foodhub-backend/internal/middleware"
)

type Router struct {
	catalogController *controller.CatalogController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController: catalogController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "FoodHub catalog API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalogs", r.catalogController.ListCatalogs)

		restaurants := v1.Group("/restaurants/:id")
		{
			restaurants.GET("/catalog", r.catalogController.GetCatalog)
			restaurants.GET("/branches/:branchId/products/:productId/price", r.catalogController.QuotePrice)
			restaurants.DELETE("/catalog/cache",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(middleware.RoleAdmin),
				r.catalogController.InvalidateCache,
			)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			// credentials cannot be combined with a wildcard origin
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	return cors.New(cfg)
}
