package handler

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub groups websocket connections by key: chat rooms keyed by order id,
// notification streams keyed by user id.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*websocket.Conn]bool

	// writeMu serializes all writes; gorilla connections do not support
	// concurrent writers.
	writeMu sync.Mutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*websocket.Conn]bool)}
}

// Join adds a connection to a group.
func (h *Hub) Join(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[key]
	if !ok {
		group = make(map[*websocket.Conn]bool)
		h.groups[key] = group
	}
	group[conn] = true
}

// Leave removes a connection from a group, dropping the group when empty.
func (h *Hub) Leave(key string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group, ok := h.groups[key]; ok {
		delete(group, conn)
		if len(group) == 0 {
			delete(h.groups, key)
		}
	}
}

// Count returns the number of connections in a group.
func (h *Hub) Count(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[key])
}

// Send writes one frame to a single connection.
func (h *Hub) Send(conn *websocket.Conn, v any) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// Broadcast writes one frame to every member of a group, the sender
// included. The group is snapshotted under the read lock first so a
// concurrent Leave cannot race the iteration; members that fail to take the
// write are closed and evicted.
func (h *Hub) Broadcast(key string, v any) {
	h.mu.RLock()
	snapshot := make([]*websocket.Conn, 0, len(h.groups[key]))
	for conn := range h.groups[key] {
		snapshot = append(snapshot, conn)
	}
	h.mu.RUnlock()

	for _, conn := range snapshot {
		if err := h.Send(conn, v); err != nil {
			conn.Close()
			h.Leave(key, conn)
		}
	}
}
