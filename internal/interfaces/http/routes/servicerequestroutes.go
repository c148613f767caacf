package routes

import (
	"github.com/gin-gonic/gin"

	requestHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/servicerequest"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
)

type ServiceRequestRouteConfig struct {
	ServiceRequestHandler *requestHandlers.Handler
	AuthMiddleware        *middleware.AuthMiddleware
	RateLimiter           *middleware.RateLimiter
}

func SetupServiceRequestRoutes(engine *gin.Engine, config *ServiceRequestRouteConfig) {
	requests := engine.Group("/api/service-requests")
	requests.Use(config.AuthMiddleware.RequireAuth())
	{
		requests.POST("", config.RateLimiter.Limit(), config.ServiceRequestHandler.Create)
		requests.GET("", config.ServiceRequestHandler.List)
		requests.GET("/active", config.ServiceRequestHandler.ListActive)
	}
}
