package router

import (
	"github.com/gin-gonic/gin"

	"briefer/internal/handler"
	"briefer/internal/middleware"
	"briefer/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	summarizeH *handler.SummarizeHandler,
	batchH *handler.BatchHandler,
	promptH *handler.PromptHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Summary routes - anonymous allowed, token enables key overrides
	open := v1.Group("")
	open.Use(middleware.AuthOptional(authSvc))
	open.POST("/summarize", summarizeH.Summarize)
	open.POST("/batches", batchH.Run)
	open.GET("/batches", batchH.List)
	open.GET("/batches/:id", batchH.Get)
	open.GET("/batches/:id/export", batchH.Export)

	// Saved prompts - require valid JWT
	prompts := v1.Group("/prompts")
	prompts.Use(middleware.AuthRequired(authSvc))
	prompts.GET("", promptH.List)
	prompts.PUT("/:name", promptH.Save)
	prompts.DELETE("/:name", promptH.Delete)

	return r
}
