package dto

import (
	"time"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
)

// MessageDTO is the wire shape of one ticket message, shared by REST history
// and realtime new_message frames.
type MessageDTO = ticket.NewMessagePayload

func ToMessageDTO(m *ticket.Message) MessageDTO {
	return ticket.NewMessagePayloadFrom(m)
}

func ToMessageDTOs(msgs []*ticket.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToMessageDTO(m))
	}
	return out
}

type TicketDetailsDTO struct {
	ID                      uint      `json:"id"`
	Status                  string    `json:"status"`
	CreatedAt               time.Time `json:"created_at"`
	DiscordChannelID        *string   `json:"discord_channel_id"`
	ServiceRequestID        uint      `json:"service_request_id"`
	ServiceType             string    `json:"service_type"`
	UrgencyLevel            string    `json:"urgency_level"`
	ClientLastReadMessageID uint      `json:"client_last_read_message_id"`
}

func ToTicketDetailsDTO(t *ticket.Ticket, sr *servicerequest.ServiceRequest) *TicketDetailsDTO {
	d := &TicketDetailsDTO{
		ID:                      t.ID(),
		Status:                  t.Status().String(),
		CreatedAt:               t.CreatedAt(),
		ServiceRequestID:        t.ServiceRequestID(),
		ClientLastReadMessageID: t.ClientLastReadMessageID(),
	}
	if t.HasChannel() {
		ch := t.ChannelID()
		d.DiscordChannelID = &ch
	}
	if sr != nil {
		d.ServiceType = sr.ServiceType()
		d.UrgencyLevel = sr.UrgencyLevel()
	}
	return d
}
