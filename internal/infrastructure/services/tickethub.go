// Package services provides infrastructure services.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fixmysite/portal/internal/infrastructure/pubsub"
	"github.com/fixmysite/portal/internal/shared/goroutine"
	protocol "github.com/fixmysite/portal/internal/shared/hubprotocol/ticket"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const (
	sendBufferSize = 256
	relayTimeout   = 5 * time.Second
)

var (
	ErrConnClosed      = errors.New("connection closed")
	ErrSendChannelFull = errors.New("send channel full")
)

// EventRelay carries publishes to other instances.
type EventRelay interface {
	Publish(ctx context.Context, event pubsub.RoomEvent) error
}

// HubConn is one client websocket. Send carries encoded ServerFrames and is
// closed by the hub when the connection is dropped.
type HubConn struct {
	ID          string
	UserID      uint
	Send        chan []byte
	ConnectedAt time.Time

	rooms  map[string]struct{}
	closed bool
}

// TicketHub tracks client connections and the ticket rooms they joined. It
// implements the publisher and room presence used by the ticket use cases.
type TicketHub struct {
	mu    sync.RWMutex
	conns map[string]*HubConn
	rooms map[string]map[string]*HubConn

	relay  EventRelay
	logger logger.Interface
}

func NewTicketHub(log logger.Interface) *TicketHub {
	return &TicketHub{
		conns:  make(map[string]*HubConn),
		rooms:  make(map[string]map[string]*HubConn),
		logger: log,
	}
}

// SetRelay enables cross-instance fan-out. Call before serving traffic.
func (h *TicketHub) SetRelay(relay EventRelay) {
	h.relay = relay
}

func (h *TicketHub) Register(userID uint) *HubConn {
	conn := &HubConn{
		ID:          uuid.NewString(),
		UserID:      userID,
		Send:        make(chan []byte, sendBufferSize),
		ConnectedAt: time.Now(),
		rooms:       make(map[string]struct{}),
	}

	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.mu.Unlock()

	h.logger.Infow("client connected", "conn_id", conn.ID, "user_id", userID)
	return conn
}

func (h *TicketHub) Unregister(conn *HubConn) {
	h.mu.Lock()
	dropped := h.dropLocked(conn)
	h.mu.Unlock()

	if dropped {
		h.logger.Infow("client disconnected", "conn_id", conn.ID, "user_id", conn.UserID)
	}
}

// dropLocked removes conn from every room and closes its send channel.
func (h *TicketHub) dropLocked(conn *HubConn) bool {
	if conn.closed {
		return false
	}
	conn.closed = true
	for room := range conn.rooms {
		h.removeFromRoomLocked(conn, room)
	}
	delete(h.conns, conn.ID)
	close(conn.Send)
	return true
}

func (h *TicketHub) Join(conn *HubConn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn.closed {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*HubConn)
		h.rooms[room] = members
	}
	members[conn.ID] = conn
	conn.rooms[room] = struct{}{}
}

func (h *TicketHub) Leave(conn *HubConn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(conn, room)
}

func (h *TicketHub) removeFromRoomLocked(conn *HubConn, room string) {
	delete(conn.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, conn.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// RoomSize counts connections on this instance only.
func (h *TicketHub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *TicketHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// PublishToRoom delivers to local room members and relays the event.
func (h *TicketHub) PublishToRoom(room, event string, payload any) {
	data, ok := h.encodePayload(event, payload)
	if !ok {
		return
	}
	h.DeliverRoom(room, event, data)
	h.relayEvent(pubsub.RoomEvent{Room: room, Event: event, Data: data})
}

// PublishGlobal delivers to every local connection and relays the event.
func (h *TicketHub) PublishGlobal(event string, payload any) {
	data, ok := h.encodePayload(event, payload)
	if !ok {
		return
	}
	h.DeliverGlobal(event, data)
	h.relayEvent(pubsub.RoomEvent{Event: event, Data: data})
}

// DeliverRoom fans an already encoded payload out to local room members.
func (h *TicketHub) DeliverRoom(room, event string, data json.RawMessage) {
	frame, ok := h.encodeFrame(protocol.ServerFrame{Event: event, Data: data})
	if !ok {
		return
	}

	h.mu.RLock()
	targets := make([]*HubConn, 0, len(h.rooms[room]))
	for _, conn := range h.rooms[room] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	h.deliver(targets, frame)
}

func (h *TicketHub) DeliverGlobal(event string, data json.RawMessage) {
	frame, ok := h.encodeFrame(protocol.ServerFrame{Event: event, Data: data})
	if !ok {
		return
	}

	h.mu.RLock()
	targets := make([]*HubConn, 0, len(h.conns))
	for _, conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	h.deliver(targets, frame)
}

// HandleRelayed applies an event published by another instance.
func (h *TicketHub) HandleRelayed(event pubsub.RoomEvent) {
	if event.IsGlobal() {
		h.DeliverGlobal(event.Event, event.Data)
		return
	}
	h.DeliverRoom(event.Room, event.Event, event.Data)
}

// SendFrame writes a frame to one connection, used for acks and errors.
func (h *TicketHub) SendFrame(conn *HubConn, frame protocol.ServerFrame) error {
	b, ok := h.encodeFrame(frame)
	if !ok {
		return errors.New("failed to encode frame")
	}
	return h.trySend(conn, b)
}

func (h *TicketHub) deliver(targets []*HubConn, frame []byte) {
	for _, conn := range targets {
		if err := h.trySend(conn, frame); errors.Is(err, ErrSendChannelFull) {
			h.logger.Warnw("dropping slow client", "conn_id", conn.ID, "user_id", conn.UserID)
			h.mu.Lock()
			h.dropLocked(conn)
			h.mu.Unlock()
		}
	}
}

// trySend never blocks. The read lock keeps Send open while writing.
func (h *TicketHub) trySend(conn *HubConn, frame []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if conn.closed {
		return ErrConnClosed
	}
	select {
	case conn.Send <- frame:
		return nil
	default:
		return ErrSendChannelFull
	}
}

func (h *TicketHub) relayEvent(event pubsub.RoomEvent) {
	if h.relay == nil {
		return
	}
	goroutine.Detach(h.logger, "realtime-relay", relayTimeout, func(ctx context.Context) {
		if err := h.relay.Publish(ctx, event); err != nil {
			h.logger.Warnw("failed to relay realtime event", "event", event.Event, "room", event.Room, "error", err)
		}
	})
}

func (h *TicketHub) encodePayload(event string, payload any) (json.RawMessage, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Errorw("failed to encode realtime payload", "event", event, "error", err)
		return nil, false
	}
	return data, true
}

func (h *TicketHub) encodeFrame(frame protocol.ServerFrame) ([]byte, bool) {
	b, err := json.Marshal(frame)
	if err != nil {
		h.logger.Errorw("failed to encode realtime frame", "event", frame.Event, "error", err)
		return nil, false
	}
	return b, true
}
