package ws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubConn struct {
	sent    []string
	sendErr error
	closed  bool
}

func (s *stubConn) Send(event string, data any) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, event)
	return nil
}

func (s *stubConn) Close() error {
	s.closed = true
	return nil
}

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()
	conn := &stubConn{}

	hub.AddClient(1, conn)
	if len(hub.rooms) != 1 {
		t.Fatalf("expected room to be created")
	}

	hub.RemoveClient(1, conn)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected room to be removed")
	}
}

func TestHubRemoveFromAll(t *testing.T) {
	hub := NewHub()
	conn := &stubConn{}
	other := &stubConn{}

	hub.AddClient(1, conn)
	hub.AddClient(2, conn)
	hub.AddClient(2, other)

	hub.RemoveFromAll(conn)

	assert.False(t, hub.InRoom(1, conn))
	assert.False(t, hub.InRoom(2, conn))
	assert.True(t, hub.InRoom(2, other))
}

func TestHubBroadcastDropsFailedConnections(t *testing.T) {
	hub := NewHub()
	healthy := &stubConn{}
	broken := &stubConn{sendErr: errors.New("write: broken pipe")}

	hub.AddClient(5, healthy)
	hub.AddClient(5, broken)

	hub.Broadcast(5, "newMessage", map[string]int{"id": 1})

	assert.Equal(t, []string{"newMessage"}, healthy.sent)
	assert.True(t, broken.closed)
	assert.False(t, hub.InRoom(5, broken))
	assert.True(t, hub.InRoom(5, healthy))
}
