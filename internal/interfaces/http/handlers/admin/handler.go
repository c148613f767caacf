// Package admin serves destructive maintenance endpoints behind the admin
// allow-list.
package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

type Maintenance interface {
	HardDeleteTicket(ctx context.Context, ticketID uint) (*usecases.HardDeleteTicketResult, error)
	WipeTickets(ctx context.Context) (*usecases.WipeResult, error)
	WipeServiceRequests(ctx context.Context) (*usecases.WipeResult, error)
}

type Handler struct {
	maintenance Maintenance
	logger      logger.Interface
}

func NewHandler(maintenance Maintenance, log logger.Interface) *Handler {
	return &Handler{maintenance: maintenance, logger: log}
}

type HardDeleteResponse struct {
	TicketID         uint   `json:"ticketId"`
	ServiceRequestID uint   `json:"serviceRequestId"`
	ChannelDeleted   bool   `json:"channelDeleted"`
	LinkedTicketIDs  []uint `json:"linkedTicketIds,omitempty"`
}

type WipeResponse struct {
	Deleted         int64 `json:"deleted"`
	ChannelsDeleted int   `json:"channelsDeleted"`
}

// HardDeleteTicket handles DELETE /api/admin/tickets/:id/hard-delete
//
//	@Summary		Permanently delete a ticket
//	@Description	Deletes the support channels, every message and the ticket rows of the ticket's service request
//	@Tags			admin
//	@Produce		json
//	@Security		Bearer
//	@Param			id	path		int	true	"Ticket ID"
//	@Success		200	{object}	utils.APIResponse{data=HardDeleteResponse}
//	@Failure		403	{object}	utils.APIResponse
//	@Failure		404	{object}	utils.APIResponse
//	@Router			/api/admin/tickets/{id}/hard-delete [delete]
func (h *Handler) HardDeleteTicket(c *gin.Context) {
	ticketID, err := utils.ParseUintParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	res, err := h.maintenance.HardDeleteTicket(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Ticket permanently deleted.", HardDeleteResponse{
		TicketID:         res.TicketID,
		ServiceRequestID: res.ServiceRequestID,
		ChannelDeleted:   res.ChannelDeleted,
		LinkedTicketIDs:  res.LinkedTicketIDs,
	})
}

// WipeTickets handles DELETE /api/admin/tickets/wipe
//
//	@Summary	Delete every ticket and message
//	@Tags		admin
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=WipeResponse}
//	@Failure	403	{object}	utils.APIResponse
//	@Router		/api/admin/tickets/wipe [delete]
func (h *Handler) WipeTickets(c *gin.Context) {
	res, err := h.maintenance.WipeTickets(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "All tickets wiped.", toWipeResponse(res))
}

// WipeServiceRequests handles DELETE /api/admin/service-requests/wipe
//
//	@Summary	Delete every service request with its tickets and credentials
//	@Tags		admin
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=WipeResponse}
//	@Failure	403	{object}	utils.APIResponse
//	@Router		/api/admin/service-requests/wipe [delete]
func (h *Handler) WipeServiceRequests(c *gin.Context) {
	res, err := h.maintenance.WipeServiceRequests(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "All service requests wiped.", toWipeResponse(res))
}

func toWipeResponse(res *usecases.WipeResult) WipeResponse {
	return WipeResponse{Deleted: res.Deleted, ChannelsDeleted: res.ChannelsDeleted}
}
