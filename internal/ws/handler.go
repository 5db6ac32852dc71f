package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/Srijapotha/new-camme-project/internal/auth"
	"github.com/Srijapotha/new-camme-project/internal/models"
	"github.com/Srijapotha/new-camme-project/internal/observability"
	"github.com/Srijapotha/new-camme-project/internal/presence"
	"github.com/Srijapotha/new-camme-project/internal/repositories"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandler owns the websocket endpoint and dispatches inbound frames.
type SocketHandler struct {
	auth        *auth.Manager
	users       repositories.UserRepository
	messages    repositories.MessageRepository
	tracker     *presence.Tracker
	hub         *Hub
	router      *Router
	coordinator *Coordinator
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(
	authMgr *auth.Manager,
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	tracker *presence.Tracker,
	hub *Hub,
	router *Router,
	coordinator *Coordinator,
) *SocketHandler {
	return &SocketHandler{
		auth:        authMgr,
		users:       users,
		messages:    messages,
		tracker:     tracker,
		hub:         hub,
		router:      router,
		coordinator: coordinator,
	}
}

// Handle upgrades the connection, announces presence and runs the read loop.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("camme/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.auth.UserFromSocketRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := NewClient(conn, info)

	h.tracker.Register(userID, client)
	if err := h.users.SetOnline(ctx, userID, true); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("set online failed")
	}
	h.tracker.Broadcast(models.EventUserOnline, userID, userID)
	_ = client.Send(models.EventOnlineUsers, h.tracker.ListOnline())

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect", "ok")
	log.Info().Int("user_id", userID).Str("conn_id", info.ConnID).Msg("websocket connected")

	go h.readLoop(client, userID)
}

func (h *SocketHandler) readLoop(client *Client, userID int) {
	ctx := context.Background()
	defer func() {
		h.hub.RemoveFromAll(client)
		h.tracker.Unregister(userID)
		if err := h.users.SetOnline(ctx, userID, false); err != nil {
			log.Error().Err(err).Int("user_id", userID).Msg("set offline failed")
		}
		h.tracker.Broadcast(models.EventUserOffline, userID, userID)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect", "ok")
		client.Close()
		log.Info().Int("user_id", userID).Str("conn_id", client.Info().ConnID).Msg("websocket disconnected")
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_read", "error")
			}
			return
		}

		var event models.ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			_ = client.Send(models.EventError, gin.H{"error": "malformed frame"})
			observability.IncWSEvent("ws_frame", "error")
			continue
		}

		h.dispatch(ctx, client, userID, event)
	}
}

func (h *SocketHandler) dispatch(ctx context.Context, client *Client, userID int, event models.ClientEvent) {
	outcome := "ok"
	defer func() { observability.IncWSEvent(event.Event, outcome) }()

	switch event.Event {
	case models.EventJoin:
		// Presence is already established from the token at handshake; a
		// join frame re-announces and refreshes the roster.
		h.tracker.Broadcast(models.EventUserOnline, userID, userID)
		_ = client.Send(models.EventOnlineUsers, h.tracker.ListOnline())

	case models.EventJoinChat:
		var payload models.JoinChatPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			outcome = "error"
			_ = client.Send(models.EventError, gin.H{"error": "malformed payload"})
			return
		}
		if err := h.coordinator.JoinRoom(ctx, payload.ChatID, userID, client); err != nil {
			outcome = "error"
			_ = client.Send(models.EventError, gin.H{"error": err.Error()})
			return
		}
		if err := h.users.TouchLastSeen(ctx, userID); err != nil {
			log.Error().Err(err).Int("user_id", userID).Msg("touch last seen failed")
		}

	case models.EventSendMessage:
		var payload models.SendMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			outcome = "error"
			_ = client.Send(models.EventMessageError, gin.H{"error": "malformed payload"})
			return
		}
		payload.SenderID = userID
		if _, err := h.router.Deliver(ctx, payload); err != nil {
			outcome = "error"
			_ = client.Send(models.EventMessageError, gin.H{"error": err.Error()})
		}

	case models.EventTyping:
		var payload models.TypingPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			outcome = "error"
			return
		}
		if peer, ok := h.tracker.Lookup(payload.ReceiverID); ok {
			_ = peer.Send(models.EventUserTyping, gin.H{"userId": userID, "isTyping": payload.IsTyping})
		}

	case models.EventPinMessage:
		var payload models.PinMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			outcome = "error"
			_ = client.Send(models.EventError, gin.H{"error": "malformed payload"})
			return
		}
		payload.UserID = userID
		if err := h.coordinator.SetPin(ctx, payload); err != nil {
			outcome = "error"
			_ = client.Send(models.EventError, gin.H{"error": err.Error()})
		}

	case models.EventMessageRead:
		var payload models.MessageReadPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			outcome = "error"
			return
		}
		readAt := time.Now().UTC()
		if err := h.messages.MarkRead(ctx, payload.MessageID, userID, readAt); err != nil {
			outcome = "error"
			_ = client.Send(models.EventError, gin.H{"error": "could not record read"})
			return
		}
		if sender, ok := h.tracker.Lookup(payload.SenderID); ok {
			_ = sender.Send(models.EventMessageReadConf, gin.H{"messageId": payload.MessageID, "readBy": userID, "readAt": readAt})
		}

	case models.EventLeaveChat:
		var payload models.JoinChatPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			outcome = "error"
			return
		}
		h.coordinator.LeaveRoom(payload.ChatID, client)

	default:
		outcome = "error"
		_ = client.Send(models.EventError, gin.H{"error": "unknown event: " + event.Event})
	}
}
