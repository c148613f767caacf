package usecases

import (
	"context"
	"fmt"

	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type ChangeStatusCommand struct {
	TicketID uint
	Status   string
}

type ChangeStatusResult struct {
	TicketID uint
	Status   vo.TicketStatus
	Changed  bool
}

type ChangeStatusUseCase struct {
	ticketRepo ticket.Repository
	userRepo   user.Repository
	publisher  Publisher
	notifier   Notifier
	logger     logger.Interface
}

func NewChangeStatusUseCase(
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	publisher Publisher,
	notifier Notifier,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		notifier:   notifier,
		logger:     logger,
	}
}

// Execute sets any status except closed, which goes through CloseTicketUseCase.
func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	status, err := vo.NewTicketStatus(cmd.Status)
	if err != nil || !status.IsSettable() {
		return nil, ticket.ErrInvalidStatus
	}

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("Error updating status.")
	}
	if t == nil {
		return nil, ticket.ErrTicketNotFound
	}

	changed, err := t.ChangeStatus(status)
	if err != nil {
		return nil, ticket.ErrInvalidStatus
	}

	if err := uc.ticketRepo.UpdateStatus(ctx, t.ID(), status); err != nil {
		uc.logger.Errorw("failed to update ticket status", "ticket_id", t.ID(), "status", status, "error", err)
		return nil, errors.NewInternalError("Error updating status.")
	}

	uc.publisher.PublishToRoom(ticket.RoomName(t.ID()), ticket.EventStatusUpdate, ticket.StatusUpdatePayload{Status: status.String()})

	if changed && status.NotifiesClient() {
		uc.notifyOwner(ctx, t, status)
	}

	uc.logger.Infow("ticket status updated", "ticket_id", t.ID(), "status", status, "changed", changed)
	return &ChangeStatusResult{TicketID: t.ID(), Status: status, Changed: changed}, nil
}

func (uc *ChangeStatusUseCase) notifyOwner(ctx context.Context, t *ticket.Ticket, status vo.TicketStatus) {
	owner, err := uc.userRepo.GetByID(ctx, t.UserID())
	if err != nil || owner == nil {
		uc.logger.Warnw("cannot email ticket owner about status change", "ticket_id", t.ID(), "user_id", t.UserID(), "error", err)
		return
	}

	subject, body := statusEmail(t.ID(), status)
	uc.notifier.Notify(ctx, owner.Email(), owner.Name(), subject, body)
}

func statusEmail(ticketID uint, status vo.TicketStatus) (string, string) {
	if status == vo.StatusInProgress {
		return fmt.Sprintf("Ticket #%d In Progress", ticketID),
			fmt.Sprintf("Good news, your ticket #%d is now in progress. Our team has started working on your request. We'll keep you updated here.", ticketID)
	}
	return fmt.Sprintf("Ticket #%d Completed", ticketID),
		fmt.Sprintf("Your service request in Ticket #%d has been marked as completed. If anything needs a follow-up, reply to this ticket anytime.", ticketID)
}
