package routes

import (
	"github.com/gin-gonic/gin"

	credentialHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/credential"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
)

type CredentialRouteConfig struct {
	CredentialHandler *credentialHandlers.Handler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupCredentialRoutes(engine *gin.Engine, config *CredentialRouteConfig) {
	credentials := engine.Group("/api/credentials")
	credentials.Use(config.AuthMiddleware.RequireAuth())
	{
		credentials.POST("", config.CredentialHandler.Create)
		credentials.GET("", config.CredentialHandler.List)

		// Specific action endpoints before the bare /:id route
		credentials.POST("/:id/reveal", config.CredentialHandler.Reveal)
		credentials.DELETE("/:id", config.CredentialHandler.Delete)
	}
}
