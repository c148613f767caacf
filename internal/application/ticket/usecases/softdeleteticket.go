package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type SoftDeleteTicketCommand struct {
	TicketID uint
	UserID   uint
}

type SoftDeleteTicketUseCase struct {
	ticketRepo ticket.Repository
	publisher  Publisher
	logger     logger.Interface
}

func NewSoftDeleteTicketUseCase(ticketRepo ticket.Repository, publisher Publisher, logger logger.Interface) *SoftDeleteTicketUseCase {
	return &SoftDeleteTicketUseCase{
		ticketRepo: ticketRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute hides the ticket from its owner's views. Rows stay until the
// retention purge or an admin hard delete.
func (uc *SoftDeleteTicketUseCase) Execute(ctx context.Context, cmd SoftDeleteTicketCommand) error {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", cmd.TicketID, "error", err)
		return errors.NewInternalError("Failed to delete ticket.")
	}
	if t == nil || !t.IsOwnedBy(cmd.UserID) {
		return ticket.ErrNotOwner
	}
	if err := t.SoftDelete(); err != nil {
		return err
	}

	if err := uc.ticketRepo.MarkDeleted(ctx, t.ID(), *t.DeletedAt()); err != nil {
		uc.logger.Errorw("failed to soft delete ticket", "ticket_id", t.ID(), "error", err)
		return errors.NewInternalError("Failed to delete ticket.")
	}

	uc.publisher.PublishToRoom(ticket.RoomName(t.ID()), ticket.EventTicketDeleted, ticket.TicketDeletedPayload{})
	uc.publisher.PublishGlobal(ticket.EventTicketDeletedFromDashboard, ticket.TicketDeletedFromDashboardPayload{TicketID: t.ID()})
	uc.publisher.PublishGlobal(ticket.EventServiceRequestDeleted, ticket.ServiceRequestDeletedPayload{
		ServiceRequestID: t.ServiceRequestID(),
		TicketID:         t.ID(),
	})

	uc.logger.Infow("ticket soft deleted", "ticket_id", t.ID(), "user_id", cmd.UserID)
	return nil
}
