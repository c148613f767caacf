package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type AcknowledgeReadCommand struct {
	TicketID      uint
	UserID        uint
	LastMessageID uint
}

type AcknowledgeReadUseCase struct {
	ticketRepo ticket.Repository
	logger     logger.Interface
}

func NewAcknowledgeReadUseCase(ticketRepo ticket.Repository, logger logger.Interface) *AcknowledgeReadUseCase {
	return &AcknowledgeReadUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

// Execute advances the owner's read cursor. Acknowledgements may arrive out
// of order; the cursor never moves backwards.
func (uc *AcknowledgeReadUseCase) Execute(ctx context.Context, cmd AcknowledgeReadCommand) error {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", cmd.TicketID, "error", err)
		return errors.NewInternalError("failed to record read position")
	}
	if t == nil || !t.IsOwnedBy(cmd.UserID) {
		return ticket.ErrNotOwner
	}

	if err := uc.ticketRepo.AdvanceReadCursor(ctx, t.ID(), cmd.LastMessageID); err != nil {
		uc.logger.Errorw("failed to advance read cursor",
			"ticket_id", t.ID(),
			"last_message_id", cmd.LastMessageID,
			"error", err,
		)
		return errors.NewInternalError("failed to record read position")
	}

	uc.logger.Debugw("read cursor acknowledged", "ticket_id", t.ID(), "last_message_id", cmd.LastMessageID)
	return nil
}
