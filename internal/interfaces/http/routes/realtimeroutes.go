package routes

import (
	"github.com/gin-gonic/gin"

	realtimeHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/realtime"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
)

type RealtimeRouteConfig struct {
	RealtimeHandler *realtimeHandlers.Handler
	AuthMiddleware  *middleware.AuthMiddleware
}

// SetupRealtimeRoutes registers the websocket endpoint. The token is checked
// before the upgrade so a bad token gets a plain 401.
func SetupRealtimeRoutes(engine *gin.Engine, config *RealtimeRouteConfig) {
	engine.GET("/ws", config.AuthMiddleware.RequireAuth(), config.RealtimeHandler.Connect)
}
