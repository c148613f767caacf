package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/application/ticket/dto"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/goroutine"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type SubmitClientMessageCommand struct {
	TicketID uint
	UserID   uint
	Body     string
}

type SubmitClientMessageUseCase struct {
	ticketRepo  ticket.Repository
	messageRepo ticket.MessageRepository
	publisher   Publisher
	chat        ChatProvider
	cfg         BridgeConfig
	logger      logger.Interface
}

func NewSubmitClientMessageUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	publisher Publisher,
	chat ChatProvider,
	cfg BridgeConfig,
	logger logger.Interface,
) *SubmitClientMessageUseCase {
	return &SubmitClientMessageUseCase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		publisher:   publisher,
		chat:        chat,
		cfg:         cfg.withDefaults(),
		logger:      logger,
	}
}

// Execute persists the message, broadcasts it to the ticket room and then
// mirrors it to the provider channel in the background. A failed mirror does
// not affect the result.
func (uc *SubmitClientMessageUseCase) Execute(ctx context.Context, cmd SubmitClientMessageCommand) (*dto.MessageDTO, error) {
	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to send message")
	}
	if t == nil || t.IsDeleted() {
		return nil, ticket.ErrTicketNotFound
	}
	if !t.IsOwnedBy(cmd.UserID) {
		return nil, ticket.ErrNotOwner
	}
	if err := t.AcceptsMessages(); err != nil {
		return nil, err
	}

	msg, err := ticket.NewClientMessage(t.ID(), cmd.UserID, cmd.Body)
	if err != nil {
		return nil, errors.NewValidationError(ticket.ErrInvalidMessage.Message, err.Error())
	}

	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		uc.logger.Errorw("failed to save client message", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to send message")
	}

	payload := dto.ToMessageDTO(msg)
	uc.publisher.PublishToRoom(ticket.RoomName(t.ID()), ticket.EventNewMessage, payload)

	if t.HasChannel() {
		channelID, text := t.ChannelID(), msg.ForwardText()
		goroutine.Detach(uc.logger, "forward-client-message", uc.cfg.ForwardTimeout, func(ctx context.Context) {
			if err := uc.chat.SendMessage(ctx, channelID, text); err != nil {
				uc.logger.Warnw("failed to forward client message to provider",
					"ticket_id", t.ID(),
					"channel_id", channelID,
					"message_id", msg.ID(),
					"error", err,
				)
			}
		})
	}

	uc.logger.Infow("client message submitted", "ticket_id", t.ID(), "message_id", msg.ID(), "user_id", cmd.UserID)
	return &payload, nil
}
