package ticket

import (
	"context"
	"time"

	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
)

// ChannelRef pairs a ticket with its provider channel.
type ChannelRef struct {
	TicketID  uint
	ChannelID string
}

// Repository lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	GetByChannelID(ctx context.Context, channelID string) (*Ticket, error)
	// ListActiveByServiceRequestIDs skips soft-deleted tickets.
	ListActiveByServiceRequestIDs(ctx context.Context, serviceRequestIDs []uint) ([]*Ticket, error)
	ListIDsByServiceRequestIDs(ctx context.Context, serviceRequestIDs []uint) ([]uint, error)
	ListSoftDeletedBefore(ctx context.Context, cutoff time.Time) ([]*Ticket, error)
	ListChannels(ctx context.Context) ([]ChannelRef, error)
	ListServiceRequestIDs(ctx context.Context) ([]uint, error)

	UpdateStatus(ctx context.Context, id uint, status vo.TicketStatus) error
	SetChannelID(ctx context.Context, id uint, channelID string) error
	MarkDeleted(ctx context.Context, id uint, at time.Time) error

	// AdvanceReadCursor raises client_last_read_message_id to lastMessageID
	// when it is higher and clears a notified marker the cursor has reached.
	AdvanceReadCursor(ctx context.Context, id uint, lastMessageID uint) error
	// ClaimUnreadNotification sets notified_unread_message_id to messageID
	// only while no notification is outstanding. It reports whether this
	// caller won the claim.
	ClaimUnreadNotification(ctx context.Context, id uint, messageID uint) (bool, error)

	DeleteByIDs(ctx context.Context, ids []uint) error
	DeleteAll(ctx context.Context) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListByTicket returns messages in ascending ID order.
	ListByTicket(ctx context.Context, ticketID uint) ([]*Message, error)
	DeleteByTicketIDs(ctx context.Context, ticketIDs []uint) error
	DeleteAll(ctx context.Context) error
}
