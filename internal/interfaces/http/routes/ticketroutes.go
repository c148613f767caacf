package routes

import (
	"github.com/gin-gonic/gin"

	ticketHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/ticket"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *ticketHandlers.Handler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/api/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.GET("/:id/messages", config.TicketHandler.GetHistory)

		tickets.GET("/:id", config.TicketHandler.GetTicket)
		tickets.DELETE("/:id", config.TicketHandler.DeleteTicket)
	}
}
