// Package ticket defines the websocket frames exchanged between the portal and
// browser clients. Handlers and the realtime hub share these types.
package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Client -> Server events.
const (
	EventJoinTicket     = "join_ticket"
	EventLeaveTicket    = "leave_ticket"
	EventClientReadUpto = "client_read_upto"
	EventRequestHistory = "request_history"
	EventTicketMessage  = "ticket_message"
)

// Server -> Client events that are not ticket domain events.
const (
	EventError = "error"
	EventAck   = "ack"
)

// ClientFrame is an inbound frame. Data is decoded per event.
type ClientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID string          `json:"ack_id,omitempty"`
}

// ServerFrame is an outbound frame. Acks carry the AckID of the request.
type ServerFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
	AckID string `json:"ack_id,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type ReadUptoData struct {
	TicketID      FlexibleID `json:"ticketId"`
	LastMessageID FlexibleID `json:"lastMessageId"`
}

type TicketMessageData struct {
	TicketID FlexibleID `json:"ticketId"`
	Message  string     `json:"message"`
}

// HistoryErrorAck is returned in place of the message list on failure.
type HistoryErrorAck struct {
	Error string `json:"error"`
}

// FlexibleID accepts 42 or "42".
type FlexibleID uint

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", string(b))
	}
	*f = FlexibleID(n)
	return nil
}

// ParseTicketRef decodes the ticket reference of join, leave and history
// frames. Both a bare id and {"ticketId": id} are accepted.
func ParseTicketRef(data json.RawMessage) (uint, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0, fmt.Errorf("missing ticket id")
	}

	if data[0] == '{' {
		var ref struct {
			TicketID FlexibleID `json:"ticketId"`
		}
		if err := json.Unmarshal(data, &ref); err != nil {
			return 0, err
		}
		if ref.TicketID == 0 {
			return 0, fmt.Errorf("missing ticket id")
		}
		return uint(ref.TicketID), nil
	}

	var id FlexibleID
	if err := json.Unmarshal(data, &id); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("missing ticket id")
	}
	return uint(id), nil
}
