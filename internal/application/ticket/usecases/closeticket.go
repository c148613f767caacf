package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// ArchiveOutcome reports what happened to the provider channel on close.
type ArchiveOutcome string

const (
	ArchiveMoved         ArchiveOutcome = "moved"
	ArchiveNotConfigured ArchiveOutcome = "not_configured"
	ArchiveFailed        ArchiveOutcome = "failed"
	ArchiveNoChannel     ArchiveOutcome = "no_channel"
)

type CloseTicketResult struct {
	TicketID uint
	Archive  ArchiveOutcome
}

type CloseTicketUseCase struct {
	ticketRepo ticket.Repository
	publisher  Publisher
	chat       ChatProvider
	cfg        BridgeConfig
	logger     logger.Interface
}

func NewCloseTicketUseCase(
	ticketRepo ticket.Repository,
	publisher Publisher,
	chat ChatProvider,
	cfg BridgeConfig,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		ticketRepo: ticketRepo,
		publisher:  publisher,
		chat:       chat,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// Execute closes the ticket and then tries to move its channel under the
// archive category. The status change stands whatever the archive outcome.
func (uc *CloseTicketUseCase) Execute(ctx context.Context, ticketID uint) (*CloseTicketResult, error) {
	t, err := uc.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", ticketID, "error", err)
		return nil, errors.NewInternalError("Error closing ticket.")
	}
	if t == nil {
		return nil, ticket.ErrTicketNotFound
	}

	if err := uc.ticketRepo.UpdateStatus(ctx, t.ID(), vo.StatusClosed); err != nil {
		uc.logger.Errorw("failed to close ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("Error closing ticket.")
	}

	uc.publisher.PublishToRoom(ticket.RoomName(t.ID()), ticket.EventStatusUpdate, ticket.StatusUpdatePayload{Status: vo.StatusClosed.String()})

	result := &CloseTicketResult{TicketID: t.ID(), Archive: uc.archive(ctx, t)}
	uc.logger.Infow("ticket closed", "ticket_id", t.ID(), "archive", result.Archive)
	return result, nil
}

func (uc *CloseTicketUseCase) archive(ctx context.Context, t *ticket.Ticket) ArchiveOutcome {
	if !t.HasChannel() {
		return ArchiveNoChannel
	}
	if uc.cfg.ArchiveCategoryID == "" {
		return ArchiveNotConfigured
	}

	actx, cancel := context.WithTimeout(ctx, uc.cfg.ProviderTimeout)
	defer cancel()
	if err := uc.chat.ArchiveChannel(actx, t.ChannelID(), uc.cfg.ArchiveCategoryID); err != nil {
		uc.logger.Warnw("failed to archive ticket channel", "ticket_id", t.ID(), "channel_id", t.ChannelID(), "error", err)
		return ArchiveFailed
	}
	return ArchiveMoved
}
