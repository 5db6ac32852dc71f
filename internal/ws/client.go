package ws

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Srijapotha/new-camme-project/internal/models"
)

// Client wraps a websocket connection with a write lock. gorilla/websocket
// permits only one concurrent writer, and sends come from both the reader
// goroutine and room broadcasts.
type Client struct {
	conn *websocket.Conn
	info ConnInfo

	mu sync.Mutex
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, info ConnInfo) *Client {
	return &Client{conn: conn, info: info}
}

// Send writes one event frame to the peer.
func (c *Client) Send(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(models.ServerEvent{Event: event, Data: data})
}

// Info returns the connection metadata captured at handshake time.
func (c *Client) Info() ConnInfo {
	return c.info
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
