// Package realtime serves the client websocket that carries ticket rooms.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fixmysite/portal/internal/application/ticket/dto"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/infrastructure/services"
	"github.com/fixmysite/portal/internal/shared/constants"
	"github.com/fixmysite/portal/internal/shared/errors"
	protocol "github.com/fixmysite/portal/internal/shared/hubprotocol/ticket"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	maxFrameSize = 64 * 1024
	frameTimeout = 20 * time.Second
)

// TicketService is the part of the ticket bridge the gateway drives.
type TicketService interface {
	AuthorizeRoom(ctx context.Context, ticketID, userID uint) error
	GetHistory(ctx context.Context, ticketID, userID uint) ([]dto.MessageDTO, error)
	AcknowledgeRead(ctx context.Context, cmd usecases.AcknowledgeReadCommand) error
	SubmitClientMessage(ctx context.Context, cmd usecases.SubmitClientMessageCommand) (*dto.MessageDTO, error)
}

type Handler struct {
	tickets  TicketService
	hub      *services.TicketHub
	upgrader websocket.Upgrader
	logger   logger.Interface
}

// NewHandler builds the gateway. An empty allowedOrigins list accepts any origin.
func NewHandler(tickets TicketService, hub *services.TicketHub, allowedOrigins []string, log logger.Interface) *Handler {
	return &Handler{
		tickets: tickets,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := set[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

// Connect upgrades an authenticated request.
//
//	@Summary		Open the realtime websocket
//	@Description	Upgrades to a websocket carrying ticket room frames. The token may be passed as ?token=.
//	@Tags			realtime
//	@Param			token	query	string	false	"JWT access token"
//	@Success		101
//	@Failure		401	{object}	utils.APIResponse
//	@Router			/ws [get]
func (h *Handler) Connect(c *gin.Context) {
	userID, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("failed to upgrade to websocket", "error", err, "ip", c.ClientIP())
		return
	}

	conn := h.hub.Register(userID.(uint))

	go h.writePump(ws, conn)
	h.readPump(c.Request.Context(), ws, conn)
}

func (h *Handler) readPump(ctx context.Context, ws *websocket.Conn, conn *services.HubConn) {
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxFrameSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.logger.Warnw("websocket read error", "error", err, "conn_id", conn.ID, "user_id", conn.UserID)
			}
			return
		}

		var frame protocol.ClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendError(conn, "Malformed frame.")
			continue
		}

		h.dispatch(ctx, conn, frame)
	}
}

func (h *Handler) writePump(ws *websocket.Conn, conn *services.HubConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case msg, ok := <-conn.Send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debugw("websocket write failed", "error", err, "conn_id", conn.ID)
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) dispatch(parent context.Context, conn *services.HubConn, frame protocol.ClientFrame) {
	ctx, cancel := context.WithTimeout(parent, frameTimeout)
	defer cancel()

	switch frame.Event {
	case protocol.EventJoinTicket:
		h.handleJoin(ctx, conn, frame)
	case protocol.EventLeaveTicket:
		h.handleLeave(conn, frame)
	case protocol.EventClientReadUpto:
		h.handleReadUpto(ctx, conn, frame)
	case protocol.EventRequestHistory:
		h.handleHistory(ctx, conn, frame)
	case protocol.EventTicketMessage:
		h.handleMessage(ctx, conn, frame)
	default:
		h.logger.Debugw("unknown websocket event", "event", frame.Event, "conn_id", conn.ID)
		h.sendError(conn, "Unknown event.")
	}
}

func (h *Handler) handleJoin(ctx context.Context, conn *services.HubConn, frame protocol.ClientFrame) {
	ticketID, err := protocol.ParseTicketRef(frame.Data)
	if err != nil {
		h.sendError(conn, ticket.ErrTicketNotFound.Message)
		return
	}

	if err := h.tickets.AuthorizeRoom(ctx, ticketID, conn.UserID); err != nil {
		h.sendError(conn, clientMessage(err, "Failed to join ticket."))
		return
	}

	h.hub.Join(conn, ticket.RoomName(ticketID))
	h.logger.Debugw("joined ticket room", "ticket_id", ticketID, "user_id", conn.UserID)
	h.ack(conn, frame, map[string]uint{"ticketId": ticketID})
}

func (h *Handler) handleLeave(conn *services.HubConn, frame protocol.ClientFrame) {
	ticketID, err := protocol.ParseTicketRef(frame.Data)
	if err != nil {
		return
	}
	h.hub.Leave(conn, ticket.RoomName(ticketID))
	h.ack(conn, frame, map[string]uint{"ticketId": ticketID})
}

func (h *Handler) handleReadUpto(ctx context.Context, conn *services.HubConn, frame protocol.ClientFrame) {
	var data protocol.ReadUptoData
	if err := json.Unmarshal(frame.Data, &data); err != nil || data.TicketID == 0 {
		return
	}

	err := h.tickets.AcknowledgeRead(ctx, usecases.AcknowledgeReadCommand{
		TicketID:      uint(data.TicketID),
		UserID:        conn.UserID,
		LastMessageID: uint(data.LastMessageID),
	})
	if err != nil {
		h.sendError(conn, clientMessage(err, "Failed to record read position."))
		return
	}
	h.ack(conn, frame, nil)
}

func (h *Handler) handleHistory(ctx context.Context, conn *services.HubConn, frame protocol.ClientFrame) {
	ticketID, err := protocol.ParseTicketRef(frame.Data)
	if err != nil {
		h.ack(conn, frame, protocol.HistoryErrorAck{Error: ticket.ErrTicketNotFound.Message})
		return
	}

	messages, err := h.tickets.GetHistory(ctx, ticketID, conn.UserID)
	if err != nil {
		h.ack(conn, frame, protocol.HistoryErrorAck{Error: clientMessage(err, "Failed to load message history.")})
		return
	}
	h.ack(conn, frame, messages)
}

func (h *Handler) handleMessage(ctx context.Context, conn *services.HubConn, frame protocol.ClientFrame) {
	var data protocol.TicketMessageData
	if err := json.Unmarshal(frame.Data, &data); err != nil || data.TicketID == 0 {
		h.sendError(conn, ticket.ErrInvalidMessage.Message)
		return
	}

	msg, err := h.tickets.SubmitClientMessage(ctx, usecases.SubmitClientMessageCommand{
		TicketID: uint(data.TicketID),
		UserID:   conn.UserID,
		Body:     data.Message,
	})
	if err != nil {
		h.sendError(conn, clientMessage(err, "Failed to send message."))
		return
	}
	h.ack(conn, frame, msg)
}

// ack answers a frame that asked for one. Frames without ack_id get nothing.
func (h *Handler) ack(conn *services.HubConn, frame protocol.ClientFrame, data any) {
	if frame.AckID == "" {
		return
	}
	if err := h.hub.SendFrame(conn, protocol.ServerFrame{Event: protocol.EventAck, Data: data, AckID: frame.AckID}); err != nil {
		h.logger.Debugw("failed to send ack", "error", err, "conn_id", conn.ID)
	}
}

func (h *Handler) sendError(conn *services.HubConn, message string) {
	frame := protocol.ServerFrame{Event: protocol.EventError, Data: protocol.ErrorData{Message: message}}
	if err := h.hub.SendFrame(conn, frame); err != nil {
		h.logger.Debugw("failed to send error frame", "error", err, "conn_id", conn.ID)
	}
}

// clientMessage exposes AppError messages and hides everything else.
func clientMessage(err error, fallback string) string {
	if appErr := errors.GetAppError(err); appErr != nil && appErr.Type != errors.ErrorTypeInternal {
		return appErr.Message
	}
	return fallback
}
