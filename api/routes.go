package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apiauth "github.com/killallgit/audionote/api/auth"
	"github.com/killallgit/audionote/api/health"
	"github.com/killallgit/audionote/api/notes"
	"github.com/killallgit/audionote/api/notifications"
	"github.com/killallgit/audionote/api/reminders"
	"github.com/killallgit/audionote/api/types"
	"github.com/killallgit/audionote/api/version"
	_ "github.com/killallgit/audionote/docs/swagger"
	"github.com/killallgit/audionote/pkg/config"
)

// RouteOptions carries the shared rate limiter state
type RouteOptions struct {
	RateLimit          config.RateLimitConfig
	RateLimiters       *sync.Map
	CleanupStop        chan struct{}
	CleanupInitialized *sync.Once
}

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, opts RouteOptions) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")
	if opts.RateLimit.Enabled && opts.RateLimiters != nil {
		v1.Use(PerClientRateLimit(opts.RateLimiters, opts.CleanupStop, opts.CleanupInitialized,
			opts.RateLimit.RequestsPerSecond, opts.RateLimit.Burst))
	}
	if deps.Auth != nil {
		v1.Use(apiauth.Middleware(deps.Auth), apiauth.RequireMethodPermission())
		v1.GET("/me", apiauth.Me())
	}

	noteGroup := v1.Group("/notes")
	notes.RegisterRoutes(noteGroup, deps)
	if deps.Reminders != nil {
		reminders.RegisterRoutes(noteGroup, deps)
	}

	if deps.Tray != nil {
		notifications.RegisterRoutes(v1.Group("/notifications"), deps)
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
