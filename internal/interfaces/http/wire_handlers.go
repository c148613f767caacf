package http

import (
	adminHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/admin"
	credentialHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/credential"
	realtimeHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/realtime"
	requestHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/servicerequest"
	ticketHandlers "github.com/fixmysite/portal/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	ticketHandler     *ticketHandlers.Handler
	requestHandler    *requestHandlers.Handler
	credentialHandler *credentialHandlers.Handler
	adminHandler      *adminHandlers.Handler
	realtimeHandler   *realtimeHandlers.Handler
}

// ============================================================
// Section 4: Handlers
// ============================================================

func (c *Container) initHandlers() {
	c.hdlrs = &allHandlers{
		ticketHandler:     ticketHandlers.NewHandler(c.ticketService, c.log.Named("handler.ticket")),
		requestHandler:    requestHandlers.NewHandler(c.requestService, c.log.Named("handler.servicerequest")),
		credentialHandler: credentialHandlers.NewHandler(c.credentialService, c.log.Named("handler.credential")),
		adminHandler:      adminHandlers.NewHandler(c.ticketService, c.log.Named("handler.admin")),
		realtimeHandler:   realtimeHandlers.NewHandler(c.ticketService, c.hub, c.cfg.Server.AllowedOrigins, c.log.Named("realtime")),
	}
}
