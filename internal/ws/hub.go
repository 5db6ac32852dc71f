package ws

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Srijapotha/new-camme-project/internal/observability"
)

// RoomConn is a connection as the hub sees it.
type RoomConn interface {
	Send(event string, data any) error
	Close() error
}

// Hub maintains chat room membership. A room exists only while at least one
// connection has joined it.
type Hub struct {
	rooms map[int]map[RoomConn]bool
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[int]map[RoomConn]bool)}
}

// AddClient registers a connection to a chat room.
func (h *Hub) AddClient(chatID int, conn RoomConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[RoomConn]bool)
	}
	h.rooms[chatID][conn] = true
}

// RemoveClient removes a connection from a chat room.
func (h *Hub) RemoveClient(chatID int, conn RoomConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// RemoveFromAll removes a connection from every room it joined, used when
// the socket disconnects.
func (h *Hub) RemoveFromAll(conn RoomConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for chatID, conns := range h.rooms {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// InRoom reports whether the connection has joined the room.
func (h *Hub) InRoom(chatID int, conn RoomConn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[chatID][conn]
}

// Broadcast sends an event to every connection in the room. Connections
// that fail to write are closed and dropped from the room.
func (h *Hub) Broadcast(chatID int, event string, data any) {
	h.mu.RLock()
	conns := make([]RoomConn, 0, len(h.rooms[chatID]))
	for conn := range h.rooms[chatID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.Send(event, data); err != nil {
			log.Warn().Err(err).Int("chat_id", chatID).Str("event", event).Msg("websocket write error")
			conn.Close()
			h.RemoveClient(chatID, conn)
			observability.IncWSEvent(event, "write_error")
		}
	}
}
