package routes

import (
	"github.com/gin-gonic/gin"

	adminHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/admin"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin-only routes.
type AdminRouteConfig struct {
	AdminHandler   *adminHandlers.Handler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupAdminRoutes configures the destructive maintenance routes. Only users
// on the configured admin list pass.
func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	admin := engine.Group("/api/admin")
	admin.Use(config.AuthMiddleware.RequireAuth(), config.AuthMiddleware.RequireAdmin())
	{
		admin.DELETE("/tickets/wipe", config.AdminHandler.WipeTickets)
		admin.DELETE("/service-requests/wipe", config.AdminHandler.WipeServiceRequests)
		admin.DELETE("/tickets/:id/hard-delete", config.AdminHandler.HardDeleteTicket)
	}
}
