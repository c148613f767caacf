package ticket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixmysite/portal/internal/application/ticket/dto"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/interfaces/http/middleware"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

type TicketService interface {
	GetTicket(ctx context.Context, ticketID, userID uint) (*dto.TicketDetailsDTO, error)
	GetHistory(ctx context.Context, ticketID, userID uint) ([]dto.MessageDTO, error)
	SoftDeleteTicket(ctx context.Context, cmd usecases.SoftDeleteTicketCommand) error
}

type Handler struct {
	tickets TicketService
	logger  logger.Interface
}

func NewHandler(tickets TicketService, log logger.Interface) *Handler {
	return &Handler{tickets: tickets, logger: log}
}

// GetTicket handles GET /api/tickets/:id
//
//	@Summary		Get ticket details
//	@Description	Returns one of the caller's tickets with its service request summary
//	@Tags			tickets
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"Ticket ID"
//	@Success		200	{object}	utils.APIResponse{data=dto.TicketDetailsDTO}
//	@Failure		404	{object}	utils.APIResponse
//	@Router			/api/tickets/{id} [get]
func (h *Handler) GetTicket(c *gin.Context) {
	userID, ticketID, ok := h.parse(c)
	if !ok {
		return
	}

	result, err := h.tickets.GetTicket(c.Request.Context(), ticketID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetHistory handles GET /api/tickets/:id/messages
//
//	@Summary	List ticket messages
//	@Tags		tickets
//	@Produce	json
//	@Security	Bearer
//	@Param		id	path		int	true	"Ticket ID"
//	@Success	200	{object}	utils.APIResponse{data=[]dto.MessageDTO}
//	@Failure	404	{object}	utils.APIResponse
//	@Router		/api/tickets/{id}/messages [get]
func (h *Handler) GetHistory(c *gin.Context) {
	userID, ticketID, ok := h.parse(c)
	if !ok {
		return
	}

	messages, err := h.tickets.GetHistory(c.Request.Context(), ticketID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", messages)
}

// DeleteTicket handles DELETE /api/tickets/:id
//
//	@Summary		Delete a ticket
//	@Description	Hides the ticket from the caller's dashboard. Messages are kept until the retention purge.
//	@Tags			tickets
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"Ticket ID"
//	@Success		200	{object}	utils.APIResponse
//	@Failure		400	{object}	utils.APIResponse
//	@Failure		404	{object}	utils.APIResponse
//	@Router			/api/tickets/{id} [delete]
func (h *Handler) DeleteTicket(c *gin.Context) {
	userID, ticketID, ok := h.parse(c)
	if !ok {
		return
	}

	err := h.tickets.SoftDeleteTicket(c.Request.Context(), usecases.SoftDeleteTicketCommand{TicketID: ticketID, UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Ticket deleted successfully.", nil)
}

func (h *Handler) parse(c *gin.Context) (uint, uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
		return 0, 0, false
	}
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, 0, false
	}
	return userID, ticketID, true
}
