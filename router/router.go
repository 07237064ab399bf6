// api/router/router.go
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/api/audit"
	"github.com/taskhive/taskhive/api/config"
	"github.com/taskhive/taskhive/api/controller"
	"github.com/taskhive/taskhive/api/middleware"
	"github.com/taskhive/taskhive/api/subscription"
)

// SetupRouter assembles the gin engine. Everything under /api/v1 is
// authenticated; premium gating is applied per route group. The cache
// endpoints live under /admin and are meant for operators, not tenants.
func SetupRouter(controllers *controller.Controllers, provider subscription.Provider, auditService audit.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())

	// Task routes degrade to read-only for lapsed subscribers: reads pass
	// with a warning attached, writes are denied with an upgrade payload.
	premiumGate := middleware.SubscriptionGate(provider, auditService, middleware.GateConfig{
		Feature:       "task_management",
		AllowReadOnly: true,
	})
	// Analytics is premium-only, reads included.
	analyticsGate := middleware.SubscriptionGate(provider, auditService, middleware.GateConfig{
		Feature: "task_analytics",
		Message: "Task analytics requires an active premium subscription.",
	})

	controllers.Task.RegisterRoutes(api, premiumGate, analyticsGate)
	controllers.Subscription.RegisterRoutes(api)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	controllers.Cache.RegisterRoutes(admin)

	return router
}
