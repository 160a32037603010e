package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"event-service/internal/models"
)

// Hub is the presence registry: the live mapping between user identity
// and active websocket connection. Both directions are indexed, so
// lookups by user id and cleanup by connection are O(1).
type Hub struct {
	mu     sync.RWMutex
	byUser map[int]*client
	byConn map[*websocket.Conn]int
}

type client struct {
	conn *websocket.Conn
	info ConnInfo

	// gorilla/websocket allows a single concurrent writer per conn.
	writeMu sync.Mutex
}

func (c *client) send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		byUser: make(map[int]*client),
		byConn: make(map[*websocket.Conn]int),
	}
}

// Register maps a user to a connection, overwriting any previous entry
// for that user. The displaced connection, if any, is returned so the
// caller can close it.
func (h *Hub) Register(userID int, conn *websocket.Conn, info ConnInfo) *websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	var displaced *websocket.Conn
	if prev, ok := h.byUser[userID]; ok && prev.conn != conn {
		displaced = prev.conn
		delete(h.byConn, prev.conn)
	}
	h.byUser[userID] = &client{conn: conn, info: info}
	h.byConn[conn] = userID
	return displaced
}

// Unregister removes a connection and reports which user it belonged to.
// A stale connection whose user has already re-registered on a fresh one
// only drops the reverse entry; the fresh mapping survives.
func (h *Hub) Unregister(conn *websocket.Conn) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.byConn[conn]
	if !ok {
		return 0, false
	}
	delete(h.byConn, conn)
	if current, ok := h.byUser[userID]; ok && current.conn == conn {
		delete(h.byUser, userID)
		return userID, true
	}
	return 0, false
}

// UserFor resolves the identity behind a connection.
func (h *Hub) UserFor(conn *websocket.Conn) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	userID, ok := h.byConn[conn]
	return userID, ok
}

// OnlineUserIDs returns the ids of every registered user.
func (h *Hub) OnlineUserIDs() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]int, 0, len(h.byUser))
	for id := range h.byUser {
		ids = append(ids, id)
	}
	return ids
}

// OnlineCount reports the number of registered users.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser)
}

// Broadcast fans an envelope out to every registered connection.
func (h *Hub) Broadcast(event models.SocketEnvelope) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.byUser))
	for _, cl := range h.byUser {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(payload); err != nil {
			log.Printf("websocket write error: %v", err)
			cl.conn.Close()
			h.Unregister(cl.conn)
		}
	}
}

// SendToUser delivers an envelope to one user's live connection, if any.
// Reports whether a connection was present.
func (h *Hub) SendToUser(userID int, event models.SocketEnvelope) bool {
	h.mu.RLock()
	cl, ok := h.byUser[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return false
	}
	if err := cl.send(payload); err != nil {
		log.Printf("websocket write error: %v", err)
		cl.conn.Close()
		h.Unregister(cl.conn)
		return false
	}
	return true
}
