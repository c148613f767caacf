package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fixmysite/portal/docs"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
	"github.com/fixmysite/portal/internal/interfaces/http/routes"
	"github.com/fixmysite/portal/internal/shared/version"
)

const healthCheckTimeout = 2 * time.Second

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log.Named("http")))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	c.engine.GET("/health", c.healthCheck)
	c.engine.GET("/version", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"version": version.String()})
	})

	routes.SetupRealtimeRoutes(c.engine, &routes.RealtimeRouteConfig{
		RealtimeHandler: c.hdlrs.realtimeHandler,
		AuthMiddleware:  c.authMiddleware,
	})

	routes.SetupServiceRequestRoutes(c.engine, &routes.ServiceRequestRouteConfig{
		ServiceRequestHandler: c.hdlrs.requestHandler,
		AuthMiddleware:        c.authMiddleware,
		RateLimiter:           c.rateLimiter,
	})

	routes.SetupTicketRoutes(c.engine, &routes.TicketRouteConfig{
		TicketHandler:  c.hdlrs.ticketHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupCredentialRoutes(c.engine, &routes.CredentialRouteConfig{
		CredentialHandler: c.hdlrs.credentialHandler,
		AuthMiddleware:    c.authMiddleware,
	})

	routes.SetupAdminRoutes(c.engine, &routes.AdminRouteConfig{
		AdminHandler:   c.hdlrs.adminHandler,
		AuthMiddleware: c.authMiddleware,
	})
}

// healthCheck reports the database and, when enabled, Redis. The chat
// provider is informational; tickets keep working without it.
func (c *Container) healthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(reqCtx) != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}
	if c.redis != nil {
		checks["redis"] = "ok"
		if err := c.redis.Ping(reqCtx).Err(); err != nil {
			status = http.StatusServiceUnavailable
			checks["redis"] = "unavailable"
		}
	}

	chat := "disabled"
	if c.adapter != nil {
		chat = "connecting"
		if c.adapter.Ready() {
			chat = "ready"
		}
	}
	checks["discord"] = chat

	healthy := "healthy"
	if status != http.StatusOK {
		healthy = "unhealthy"
	}
	ctx.JSON(status, gin.H{
		"status":      healthy,
		"service":     "portal",
		"connections": c.hub.ConnectionCount(),
		"checks":      checks,
	})
}
