package ticket

import (
	"context"

	"github.com/fixmysite/portal/internal/application/ticket/dto"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// ServiceDDD is the ticket bridge as seen by transports: the websocket
// gateway, the REST handlers, the chat provider listener and the CLI.
type ServiceDDD struct {
	logger logger.Interface

	submitClientMessage  *usecases.SubmitClientMessageUseCase
	relayProviderMessage *usecases.RelayProviderMessageUseCase
	acknowledgeRead      *usecases.AcknowledgeReadUseCase
	authorizeRoom        *usecases.AuthorizeRoomUseCase
	getTicket            *usecases.GetTicketUseCase
	getHistory           *usecases.GetHistoryUseCase

	changeStatus *usecases.ChangeStatusUseCase
	closeTicket  *usecases.CloseTicketUseCase
	hardDelete   *usecases.HardDeleteTicketUseCase
	softDelete   *usecases.SoftDeleteTicketUseCase

	wipeTickets         *usecases.WipeTicketsUseCase
	wipeServiceRequests *usecases.WipeServiceRequestsUseCase
	purgeDeleted        *usecases.PurgeDeletedTicketsUseCase
}

func NewServiceDDD(
	tx usecases.TxRunner,
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	userRepo user.Repository,
	requestRepo servicerequest.Repository,
	credentialRepo credential.Repository,
	publisher usecases.Publisher,
	presence usecases.RoomPresence,
	chat usecases.ChatProvider,
	notifier usecases.Notifier,
	cfg usecases.BridgeConfig,
	retentionDays int,
	logger logger.Interface,
) *ServiceDDD {
	cascade := usecases.NewCascade(tx, ticketRepo, messageRepo, credentialRepo, requestRepo, chat, cfg, logger)

	return &ServiceDDD{
		logger: logger,

		submitClientMessage:  usecases.NewSubmitClientMessageUseCase(ticketRepo, messageRepo, publisher, chat, cfg, logger),
		relayProviderMessage: usecases.NewRelayProviderMessageUseCase(ticketRepo, messageRepo, userRepo, publisher, presence, notifier, logger),
		acknowledgeRead:      usecases.NewAcknowledgeReadUseCase(ticketRepo, logger),
		authorizeRoom:        usecases.NewAuthorizeRoomUseCase(ticketRepo),
		getTicket:            usecases.NewGetTicketUseCase(ticketRepo, requestRepo, logger),
		getHistory:           usecases.NewGetHistoryUseCase(ticketRepo, messageRepo, logger),

		changeStatus: usecases.NewChangeStatusUseCase(ticketRepo, userRepo, publisher, notifier, logger),
		closeTicket:  usecases.NewCloseTicketUseCase(ticketRepo, publisher, chat, cfg, logger),
		hardDelete:   usecases.NewHardDeleteTicketUseCase(ticketRepo, cascade, publisher, logger),
		softDelete:   usecases.NewSoftDeleteTicketUseCase(ticketRepo, publisher, logger),

		wipeTickets:         usecases.NewWipeTicketsUseCase(cascade, publisher, logger),
		wipeServiceRequests: usecases.NewWipeServiceRequestsUseCase(cascade, requestRepo, publisher, logger),
		purgeDeleted:        usecases.NewPurgeDeletedTicketsUseCase(ticketRepo, cascade, retentionDays, logger),
	}
}

func (s *ServiceDDD) SubmitClientMessage(ctx context.Context, cmd usecases.SubmitClientMessageCommand) (*dto.MessageDTO, error) {
	return s.submitClientMessage.Execute(ctx, cmd)
}

func (s *ServiceDDD) RelayProviderMessage(ctx context.Context, cmd usecases.RelayProviderMessageCommand) (*usecases.RelayProviderMessageResult, error) {
	return s.relayProviderMessage.Execute(ctx, cmd)
}

func (s *ServiceDDD) AcknowledgeRead(ctx context.Context, cmd usecases.AcknowledgeReadCommand) error {
	return s.acknowledgeRead.Execute(ctx, cmd)
}

func (s *ServiceDDD) AuthorizeRoom(ctx context.Context, ticketID, userID uint) error {
	return s.authorizeRoom.Execute(ctx, usecases.GetTicketQuery{TicketID: ticketID, UserID: userID})
}

func (s *ServiceDDD) GetTicket(ctx context.Context, ticketID, userID uint) (*dto.TicketDetailsDTO, error) {
	return s.getTicket.Execute(ctx, usecases.GetTicketQuery{TicketID: ticketID, UserID: userID})
}

func (s *ServiceDDD) GetHistory(ctx context.Context, ticketID, userID uint) ([]dto.MessageDTO, error) {
	return s.getHistory.Execute(ctx, usecases.GetTicketQuery{TicketID: ticketID, UserID: userID})
}

func (s *ServiceDDD) ChangeStatus(ctx context.Context, cmd usecases.ChangeStatusCommand) (*usecases.ChangeStatusResult, error) {
	return s.changeStatus.Execute(ctx, cmd)
}

func (s *ServiceDDD) CloseTicket(ctx context.Context, ticketID uint) (*usecases.CloseTicketResult, error) {
	return s.closeTicket.Execute(ctx, ticketID)
}

func (s *ServiceDDD) HardDeleteTicket(ctx context.Context, ticketID uint) (*usecases.HardDeleteTicketResult, error) {
	return s.hardDelete.Execute(ctx, ticketID)
}

func (s *ServiceDDD) SoftDeleteTicket(ctx context.Context, cmd usecases.SoftDeleteTicketCommand) error {
	return s.softDelete.Execute(ctx, cmd)
}

func (s *ServiceDDD) WipeTickets(ctx context.Context) (*usecases.WipeResult, error) {
	return s.wipeTickets.Execute(ctx)
}

func (s *ServiceDDD) WipeServiceRequests(ctx context.Context) (*usecases.WipeResult, error) {
	return s.wipeServiceRequests.Execute(ctx)
}

func (s *ServiceDDD) PurgeDeletedTickets(ctx context.Context) (int, error) {
	return s.purgeDeleted.Execute(ctx)
}
