package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixmysite/portal/internal/application/ticket/dto"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type RelayProviderMessageCommand struct {
	ChannelID         string
	AuthorDisplayName string
	IsBot             bool
	Body              string
}

// RelayOutcome says what happened to an inbound provider message.
type RelayOutcome string

const (
	RelayIgnoredBot     RelayOutcome = "ignored_bot"
	RelayUnknownChannel RelayOutcome = "unknown_channel"
	RelayTicketClosed   RelayOutcome = "ticket_closed"
	RelayEmptyBody      RelayOutcome = "empty_body"
	RelayDelivered      RelayOutcome = "delivered"
)

type RelayProviderMessageResult struct {
	Outcome  RelayOutcome
	Message  *dto.MessageDTO
	Notified bool
}

type RelayProviderMessageUseCase struct {
	ticketRepo  ticket.Repository
	messageRepo ticket.MessageRepository
	userRepo    user.Repository
	publisher   Publisher
	presence    RoomPresence
	notifier    Notifier
	logger      logger.Interface
}

func NewRelayProviderMessageUseCase(
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	userRepo user.Repository,
	publisher Publisher,
	presence RoomPresence,
	notifier Notifier,
	logger logger.Interface,
) *RelayProviderMessageUseCase {
	return &RelayProviderMessageUseCase{
		ticketRepo:  ticketRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		presence:    presence,
		notifier:    notifier,
		logger:      logger,
	}
}

func (uc *RelayProviderMessageUseCase) Execute(ctx context.Context, cmd RelayProviderMessageCommand) (*RelayProviderMessageResult, error) {
	if cmd.IsBot {
		return &RelayProviderMessageResult{Outcome: RelayIgnoredBot}, nil
	}

	t, err := uc.ticketRepo.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %s: %w", cmd.ChannelID, err)
	}
	if t == nil {
		return &RelayProviderMessageResult{Outcome: RelayUnknownChannel}, nil
	}
	if t.AcceptsMessages() != nil {
		uc.logger.Infow("dropping provider message for closed ticket", "ticket_id", t.ID())
		return &RelayProviderMessageResult{Outcome: RelayTicketClosed}, nil
	}
	if strings.TrimSpace(cmd.Body) == "" {
		return &RelayProviderMessageResult{Outcome: RelayEmptyBody}, nil
	}

	msg, err := ticket.NewProviderMessage(t.ID(), cmd.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider message: %w", err)
	}
	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save provider message: %w", err)
	}

	payload := dto.ToMessageDTO(msg)
	room := ticket.RoomName(t.ID())
	uc.publisher.PublishToRoom(room, ticket.EventNewMessage, payload)

	result := &RelayProviderMessageResult{Outcome: RelayDelivered, Message: &payload}
	if uc.presence.RoomSize(room) > 0 {
		return result, nil
	}

	notified, err := uc.notifyOffline(ctx, t, msg)
	if err != nil {
		// The message is already persisted and broadcast.
		uc.logger.Errorw("failed to run offline notification", "ticket_id", t.ID(), "message_id", msg.ID(), "error", err)
	}
	result.Notified = notified
	return result, nil
}

// notifyOffline sends at most one email per unread batch. The owner is
// resolved before the claim so a failed lookup leaves the batch unclaimed.
// The claim is a conditional update so two relays racing on one ticket cannot
// both win.
func (uc *RelayProviderMessageUseCase) notifyOffline(ctx context.Context, t *ticket.Ticket, msg *ticket.Message) (bool, error) {
	owner, err := uc.userRepo.GetByID(ctx, t.UserID())
	if err != nil {
		return false, err
	}
	if owner == nil {
		uc.logger.Warnw("ticket owner not found, skipping notification", "ticket_id", t.ID(), "user_id", t.UserID())
		return false, nil
	}

	claimed, err := uc.ticketRepo.ClaimUnreadNotification(ctx, t.ID(), msg.ID())
	if err != nil {
		return false, err
	}
	if !claimed {
		uc.logger.Debugw("unread notification already pending", "ticket_id", t.ID(), "message_id", msg.ID())
		return false, nil
	}

	subject := fmt.Sprintf("New Message in Ticket #%d", t.ID())
	uc.notifier.Notify(ctx, owner.Email(), owner.Name(), subject, newMessageEmailBody(t.ID(), msg))

	uc.logger.Infow("offline notification sent", "ticket_id", t.ID(), "message_id", msg.ID(), "user_id", owner.ID())
	return true, nil
}

func newMessageEmailBody(ticketID uint, msg *ticket.Message) string {
	return fmt.Sprintf(
		"You have a new message in Ticket #%d from %s.\n\nMessage: \"%s\"\n\nWe will only send one alert until you view the conversation.",
		ticketID, msg.AuthorName(), msg.Body(),
	)
}
