package mappers

import (
	"fmt"

	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
)

// TicketMapper converts tickets and their messages between the domain and
// persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToDomainList(list []models.TicketModel) ([]*ticket.Ticket, error)

	MessageToModel(m *ticket.Message) *models.TicketMessageModel
	MessageToDomain(model *models.TicketMessageModel) (*ticket.Message, error)
	MessagesToDomain(list []models.TicketMessageModel) ([]*ticket.Message, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:                      t.ID(),
		UserID:                  t.UserID(),
		ServiceRequestID:        t.ServiceRequestID(),
		Status:                  t.Status().String(),
		Deleted:                 t.IsDeleted(),
		DeletedAt:               t.DeletedAt(),
		ClientLastReadMessageID: t.ClientLastReadMessageID(),
		NotifiedUnreadMessageID: t.NotifiedUnreadMessageID(),
		CreatedAt:               t.CreatedAt(),
	}
	if t.HasChannel() {
		channelID := t.ChannelID()
		model.DiscordChannelID = &channelID
	}
	return model
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	channelID := ""
	if model.DiscordChannelID != nil {
		channelID = *model.DiscordChannelID
	}

	status := vo.TicketStatus(model.Status)
	if !status.IsValid() {
		status = vo.StatusOpen
	}

	t, err := ticket.ReconstructTicket(
		model.ID,
		model.UserID,
		model.ServiceRequestID,
		channelID,
		status,
		model.Deleted,
		model.DeletedAt,
		model.ClientLastReadMessageID,
		model.NotifiedUnreadMessageID,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket %d: %w", model.ID, err)
	}
	return t, nil
}

func (m *TicketMapperImpl) ToDomainList(list []models.TicketModel) ([]*ticket.Ticket, error) {
	out := make([]*ticket.Ticket, 0, len(list))
	for i := range list {
		t, err := m.ToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *TicketMapperImpl) MessageToModel(msg *ticket.Message) *models.TicketMessageModel {
	return &models.TicketMessageModel{
		ID:         msg.ID(),
		TicketID:   msg.TicketID(),
		UserID:     msg.UserID(),
		AuthorName: msg.AuthorName(),
		Message:    msg.Body(),
		CreatedAt:  msg.CreatedAt(),
	}
}

func (m *TicketMapperImpl) MessageToDomain(model *models.TicketMessageModel) (*ticket.Message, error) {
	if model == nil {
		return nil, nil
	}
	msg, err := ticket.ReconstructMessage(
		model.ID,
		model.TicketID,
		model.UserID,
		model.AuthorName,
		model.Message,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct message %d: %w", model.ID, err)
	}
	return msg, nil
}

func (m *TicketMapperImpl) MessagesToDomain(list []models.TicketMessageModel) ([]*ticket.Message, error) {
	out := make([]*ticket.Message, 0, len(list))
	for i := range list {
		msg, err := m.MessageToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
