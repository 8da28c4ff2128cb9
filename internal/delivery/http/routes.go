package http

import (
	"github.com/gin-gonic/gin"

	"github.com/recipecart/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/resolve", handler.Resolve)

			sessions := recipes.Group("/sessions")
			{
				sessions.GET("/:id", handler.GetSession)
				sessions.PUT("/:id/records/:index/selection", handler.UpdateSelection)
				sessions.POST("/:id/commit", handler.Commit)
				sessions.POST("/:id/cancel", handler.Cancel)
			}
		}
	}

	return router
}
