package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type HardDeleteTicketResult struct {
	TicketID         uint
	ServiceRequestID uint
	ChannelDeleted   bool
	// LinkedTicketIDs are other tickets of the same service request that
	// were removed with it.
	LinkedTicketIDs []uint
}

type HardDeleteTicketUseCase struct {
	ticketRepo ticket.Repository
	cascade    *Cascade
	publisher  Publisher
	logger     logger.Interface
}

func NewHardDeleteTicketUseCase(
	ticketRepo ticket.Repository,
	cascade *Cascade,
	publisher Publisher,
	logger logger.Interface,
) *HardDeleteTicketUseCase {
	return &HardDeleteTicketUseCase{
		ticketRepo: ticketRepo,
		cascade:    cascade,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute removes the provider channels (best effort) and then the ticket, its
// messages, its service request and that request's credentials atomically.
// Other tickets of the same service request go with it, so their channels are
// removed and their rooms told as well.
func (uc *HardDeleteTicketUseCase) Execute(ctx context.Context, ticketID uint) (*HardDeleteTicketResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("failed to delete ticket")
	}
	if t == nil {
		return nil, ticket.ErrTicketNotFound
	}

	linked, err := uc.linkedTickets(ctx, t)
	if err != nil {
		uc.logger.Errorw("failed to load linked tickets", "ticket_id", t.ID(), "service_request_id", t.ServiceRequestID(), "error", err)
		return nil, errors.NewInternalError("failed to delete ticket")
	}

	result := &HardDeleteTicketResult{
		TicketID:         t.ID(),
		ServiceRequestID: t.ServiceRequestID(),
		ChannelDeleted:   uc.cascade.DeleteChannel(ctx, t.ID(), t.ChannelID()),
	}
	ticketIDs := []uint{t.ID()}
	for _, lt := range linked {
		uc.cascade.DeleteChannel(ctx, lt.ID(), lt.ChannelID())
		ticketIDs = append(ticketIDs, lt.ID())
		result.LinkedTicketIDs = append(result.LinkedTicketIDs, lt.ID())
	}

	var requestIDs []uint
	if t.ServiceRequestID() != 0 {
		requestIDs = []uint{t.ServiceRequestID()}
	}
	if err := uc.cascade.DeleteTrees(ctx, ticketIDs, requestIDs); err != nil {
		uc.logger.Errorw("hard delete rolled back", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to delete ticket")
	}

	for _, id := range ticketIDs {
		uc.publisher.PublishToRoom(ticket.RoomName(id), ticket.EventTicketDeleted, ticket.TicketDeletedPayload{})
		uc.publisher.PublishGlobal(ticket.EventTicketDeletedFromDashboard, ticket.TicketDeletedFromDashboardPayload{TicketID: id})
	}
	uc.publisher.PublishGlobal(ticket.EventServiceRequestDeleted, ticket.ServiceRequestDeletedPayload{
		ServiceRequestID: t.ServiceRequestID(),
		TicketID:         t.ID(),
	})

	uc.logger.Infow("ticket fully deleted",
		"ticket_id", t.ID(),
		"service_request_id", t.ServiceRequestID(),
		"linked_ticket_ids", result.LinkedTicketIDs,
	)
	return result, nil
}

// linkedTickets returns the other tickets sharing t's service request.
func (uc *HardDeleteTicketUseCase) linkedTickets(ctx context.Context, t *ticket.Ticket) ([]*ticket.Ticket, error) {
	if t.ServiceRequestID() == 0 {
		return nil, nil
	}
	ids, err := uc.ticketRepo.ListIDsByServiceRequestIDs(ctx, []uint{t.ServiceRequestID()})
	if err != nil {
		return nil, err
	}

	var linked []*ticket.Ticket
	for _, id := range ids {
		if id == t.ID() {
			continue
		}
		lt, err := uc.ticketRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if lt != nil {
			linked = append(linked, lt)
		}
	}
	return linked, nil
}
