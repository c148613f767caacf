package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/fixmysite/portal/internal/shared/biztime"
)

// SupportAuthorName is the display name of every provider-side message.
const SupportAuthorName = "FixMy.Site Support"

const MaxMessageLength = 5000

// Message is immutable once persisted. Its store-assigned ID is the canonical
// order within a ticket.
type Message struct {
	id         uint
	ticketID   uint
	userID     *uint
	authorName string
	body       string
	createdAt  time.Time
}

// NewClientMessage builds a message authored by the ticket owner.
func NewClientMessage(ticketID, userID uint, body string) (*Message, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	uid := userID
	return newMessage(ticketID, &uid, ClientAuthorName(userID), body)
}

// NewProviderMessage builds a message relayed from the support channel. It has
// no author user.
func NewProviderMessage(ticketID uint, body string) (*Message, error) {
	return newMessage(ticketID, nil, SupportAuthorName, body)
}

func newMessage(ticketID uint, userID *uint, authorName, body string) (*Message, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}
	if len(body) > MaxMessageLength {
		return nil, fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}

	return &Message{
		ticketID:   ticketID,
		userID:     userID,
		authorName: authorName,
		body:       body,
		createdAt:  biztime.NowUTC(),
	}, nil
}

func ReconstructMessage(
	id uint,
	ticketID uint,
	userID *uint,
	authorName string,
	body string,
	createdAt time.Time,
) (*Message, error) {
	if id == 0 {
		return nil, fmt.Errorf("message ID cannot be zero")
	}
	return &Message{
		id:         id,
		ticketID:   ticketID,
		userID:     userID,
		authorName: authorName,
		body:       body,
		createdAt:  createdAt,
	}, nil
}

func ClientAuthorName(userID uint) string {
	return fmt.Sprintf("User #%d", userID)
}

func (m *Message) ID() uint             { return m.id }
func (m *Message) TicketID() uint       { return m.ticketID }
func (m *Message) UserID() *uint        { return m.userID }
func (m *Message) AuthorName() string   { return m.authorName }
func (m *Message) Body() string         { return m.body }
func (m *Message) CreatedAt() time.Time { return m.createdAt }

func (m *Message) IsFromProvider() bool {
	return m.userID == nil
}

func (m *Message) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("message ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("message ID cannot be zero")
	}
	m.id = id
	return nil
}

// ForwardText is the text mirrored into the provider channel.
func (m *Message) ForwardText() string {
	return fmt.Sprintf("**%s:** %s", m.authorName, m.body)
}
