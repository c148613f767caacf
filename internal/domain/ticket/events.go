package ticket

import "fmt"

// Realtime event names published to ticket rooms and the dashboard scope.
const (
	EventNewMessage                 = "new_message"
	EventStatusUpdate               = "status_update"
	EventTicketDeleted              = "ticket_deleted"
	EventTicketDeletedFromDashboard = "ticket_deleted_from_dashboard"
	EventServiceRequestDeleted      = "service_request_deleted"
	EventTicketsWiped               = "tickets_wiped"
	EventServiceRequestsWiped       = "service_requests_wiped"
)

// RoomName is the realtime room for one ticket.
func RoomName(ticketID uint) string {
	return fmt.Sprintf("ticket:%d", ticketID)
}

type NewMessagePayload struct {
	ID         uint   `json:"id"`
	TicketID   uint   `json:"ticket_id"`
	UserID     *uint  `json:"user_id"`
	AuthorName string `json:"author_name"`
	Message    string `json:"message"`
	CreatedAt  string `json:"created_at"`
}

func NewMessagePayloadFrom(m *Message) NewMessagePayload {
	return NewMessagePayload{
		ID:         m.ID(),
		TicketID:   m.TicketID(),
		UserID:     m.UserID(),
		AuthorName: m.AuthorName(),
		Message:    m.Body(),
		CreatedAt:  m.CreatedAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

type StatusUpdatePayload struct {
	Status string `json:"status"`
}

type TicketDeletedPayload struct{}

type TicketDeletedFromDashboardPayload struct {
	TicketID uint `json:"ticketId"`
}

type ServiceRequestDeletedPayload struct {
	ServiceRequestID uint `json:"serviceRequestId"`
	TicketID         uint `json:"ticketId"`
}

type WipedPayload struct {
	Count int64 `json:"count"`
}
