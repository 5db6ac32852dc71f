// Package presence tracks which users currently hold a live socket
// connection. The tracker is constructor-injected wherever it is needed so
// tests can observe and fake it; there is no package-level instance.
package presence

import (
	"sort"
	"sync"
)

// Conn is the slice of a socket connection the tracker needs.
type Conn interface {
	Send(event string, data any) error
}

// Tracker maps user ids to their active connection. A later registration
// for the same user silently replaces the earlier one (last writer wins);
// concurrent multi-device sessions are not distinguished.
type Tracker struct {
	mu    sync.RWMutex
	conns map[int]Conn
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{conns: make(map[int]Conn)}
}

// Register stores or overwrites the user's connection.
func (t *Tracker) Register(userID int, conn Conn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns[userID] = conn
}

// Unregister removes the user's connection mapping.
func (t *Tracker) Unregister(userID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, userID)
}

// Lookup returns the user's connection, if any.
func (t *Tracker) Lookup(userID int) (Conn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	conn, ok := t.conns[userID]
	return conn, ok
}

// ListOnline returns an independent snapshot of the online user ids.
func (t *Tracker) ListOnline() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int, 0, len(t.conns))
	for id := range t.conns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Broadcast sends an event to every connection except the excluded user.
// Send errors are the connections' problem; delivery is best effort.
func (t *Tracker) Broadcast(event string, data any, exceptUserID int) {
	t.mu.RLock()
	conns := make([]Conn, 0, len(t.conns))
	for id, conn := range t.conns {
		if id != exceptUserID {
			conns = append(conns, conn)
		}
	}
	t.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Send(event, data)
	}
}
