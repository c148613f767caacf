package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/application/ticket/dto"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID uint
	UserID   uint
}

type GetTicketUseCase struct {
	ticketRepo  ticket.Repository
	requestRepo servicerequest.Repository
	logger      logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.Repository, requestRepo servicerequest.Repository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:  ticketRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailsDTO, error) {
	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewInternalError("Database error fetching ticket details.")
	}
	if t == nil || t.IsDeleted() || !t.IsOwnedBy(query.UserID) {
		return nil, ticket.ErrNotOwner
	}

	sr, err := uc.requestRepo.GetByID(ctx, t.ServiceRequestID())
	if err != nil {
		uc.logger.Errorw("failed to load service request", "service_request_id", t.ServiceRequestID(), "error", err)
		return nil, errors.NewInternalError("Database error fetching ticket details.")
	}
	if sr == nil {
		return nil, ticket.ErrNotOwner
	}

	return dto.ToTicketDetailsDTO(t, sr), nil
}

type GetHistoryUseCase struct {
	ticketRepo  ticket.Repository
	messageRepo ticket.MessageRepository
	logger      logger.Interface
}

func NewGetHistoryUseCase(ticketRepo ticket.Repository, messageRepo ticket.MessageRepository, logger logger.Interface) *GetHistoryUseCase {
	return &GetHistoryUseCase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// Execute returns the owner's conversation in store ID order.
func (uc *GetHistoryUseCase) Execute(ctx context.Context, query GetTicketQuery) ([]dto.MessageDTO, error) {
	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewInternalError("Failed to load message history.")
	}
	if t == nil || !t.IsOwnedBy(query.UserID) {
		return nil, ticket.ErrNotOwner
	}

	msgs, err := uc.messageRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to load messages", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("Failed to load message history.")
	}
	return dto.ToMessageDTOs(msgs), nil
}

// AuthorizeRoomUseCase decides whether a user may join a ticket room.
type AuthorizeRoomUseCase struct {
	ticketRepo ticket.Repository
}

func NewAuthorizeRoomUseCase(ticketRepo ticket.Repository) *AuthorizeRoomUseCase {
	return &AuthorizeRoomUseCase{ticketRepo: ticketRepo}
}

func (uc *AuthorizeRoomUseCase) Execute(ctx context.Context, query GetTicketQuery) error {
	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		return errors.NewInternalError("Failed to join ticket.")
	}
	if t == nil || t.IsDeleted() || !t.IsOwnedBy(query.UserID) {
		return ticket.ErrNotOwner
	}
	return nil
}
