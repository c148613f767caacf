package ticket

import (
	"fmt"
	"time"

	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/shared/biztime"
)

// Ticket is one support conversation tied to a service request and mirrored
// into a chat-provider channel.
type Ticket struct {
	id               uint
	userID           uint
	serviceRequestID uint
	channelID        string
	status           vo.TicketStatus
	deleted          bool
	deletedAt        *time.Time
	clientLastRead   uint
	notifiedUnread   *uint
	createdAt        time.Time
}

func NewTicket(userID, serviceRequestID uint) (*Ticket, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if serviceRequestID == 0 {
		return nil, fmt.Errorf("service request ID is required")
	}

	return &Ticket{
		userID:           userID,
		serviceRequestID: serviceRequestID,
		status:           vo.StatusOpen,
		createdAt:        biztime.NowUTC(),
	}, nil
}

func ReconstructTicket(
	id uint,
	userID uint,
	serviceRequestID uint,
	channelID string,
	status vo.TicketStatus,
	deleted bool,
	deletedAt *time.Time,
	clientLastRead uint,
	notifiedUnread *uint,
	createdAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	return &Ticket{
		id:               id,
		userID:           userID,
		serviceRequestID: serviceRequestID,
		channelID:        channelID,
		status:           status,
		deleted:          deleted,
		deletedAt:        deletedAt,
		clientLastRead:   clientLastRead,
		notifiedUnread:   notifiedUnread,
		createdAt:        createdAt,
	}, nil
}

func (t *Ticket) ID() uint                { return t.id }
func (t *Ticket) UserID() uint            { return t.userID }
func (t *Ticket) ServiceRequestID() uint  { return t.serviceRequestID }
func (t *Ticket) ChannelID() string       { return t.channelID }
func (t *Ticket) HasChannel() bool        { return t.channelID != "" }
func (t *Ticket) Status() vo.TicketStatus { return t.status }
func (t *Ticket) IsDeleted() bool         { return t.deleted }
func (t *Ticket) DeletedAt() *time.Time   { return t.deletedAt }
func (t *Ticket) CreatedAt() time.Time    { return t.createdAt }

func (t *Ticket) ClientLastReadMessageID() uint {
	return t.clientLastRead
}

func (t *Ticket) NotifiedUnreadMessageID() *uint {
	if t.notifiedUnread == nil {
		return nil
	}
	v := *t.notifiedUnread
	return &v
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) IsOwnedBy(userID uint) bool {
	return userID != 0 && t.userID == userID
}

func (t *Ticket) AttachChannel(channelID string) {
	t.channelID = channelID
}

// AcceptsMessages returns ErrTicketClosed for closed tickets. completed and
// resolved stay writable so a client can follow up.
func (t *Ticket) AcceptsMessages() error {
	if t.status.IsClosed() {
		return ErrTicketClosed
	}
	return nil
}

// ChangeStatus reports whether the status actually changed.
func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus) (bool, error) {
	if !newStatus.IsValid() {
		return false, fmt.Errorf("invalid status: %s", newStatus)
	}
	if t.status == newStatus {
		return false, nil
	}
	t.status = newStatus
	return true, nil
}

func (t *Ticket) SoftDelete() error {
	if t.deleted {
		return ErrAlreadyDeleted
	}
	now := biztime.NowUTC()
	t.deleted = true
	t.deletedAt = &now
	return nil
}

// AdvanceReadCursor moves the read cursor to max(current, lastMessageID) and
// re-arms unread notification once the notified message has been read.
func (t *Ticket) AdvanceReadCursor(lastMessageID uint) {
	if lastMessageID > t.clientLastRead {
		t.clientLastRead = lastMessageID
	}
	if t.notifiedUnread != nil && *t.notifiedUnread <= t.clientLastRead {
		t.notifiedUnread = nil
	}
}

// ShouldNotifyUnread is true when no notification is outstanding for an
// unread message.
func (t *Ticket) ShouldNotifyUnread() bool {
	return t.notifiedUnread == nil || *t.notifiedUnread <= t.clientLastRead
}

func (t *Ticket) MarkNotified(messageID uint) error {
	if messageID <= t.clientLastRead {
		return fmt.Errorf("message %d is already read", messageID)
	}
	t.notifiedUnread = &messageID
	return nil
}
