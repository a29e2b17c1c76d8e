package ws

import (
	"context"
	"sync"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// Message is the frame pushed to app clients when a notification fires.
type Message struct {
	Type         string                       `json:"type"`
	Notification models.ScheduledNotification `json:"notification"`
	DeliveredAt  time.Time                    `json:"delivered_at"`
}

// Connection wraps websocket.Conn with its owner.
type Connection struct {
	Conn     *websocket.Conn
	UserID   string
	LastSeen time.Time
	writeMu  sync.Mutex
}

// Hub tracks connected clients per user. Fired notifications go to the
// connections of the hub's owner only.
type Hub struct {
	owner       string
	mu          sync.RWMutex
	connections map[string]map[*Connection]struct{} // userID -> set of connections
}

func NewHub(owner string) *Hub {
	return &Hub{
		owner:       owner,
		connections: make(map[string]map[*Connection]struct{}),
	}
}

// Add registers a connection for userID.
func (h *Hub) Add(userID string, conn *websocket.Conn) *Connection {
	c := &Connection{Conn: conn, UserID: userID, LastSeen: time.Now()}

	h.mu.Lock()
	if _, ok := h.connections[userID]; !ok {
		h.connections[userID] = make(map[*Connection]struct{})
	}
	h.connections[userID][c] = struct{}{}
	total := len(h.connections[userID])
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{"user_id": userID, "total": total}).Info("WS connected")
	return c
}

// Remove closes and forgets a connection. Removing it again is a no-op.
func (h *Hub) Remove(c *Connection) {
	h.mu.Lock()
	conns, ok := h.connections[c.UserID]
	if ok {
		_, ok = conns[c]
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.connections, c.UserID)
		}
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	_ = c.Conn.Close()
	logrus.WithField("user_id", c.UserID).Info("WS disconnected")
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Dispatch delivers n to the owner's connections.
func (h *Hub) Dispatch(ctx context.Context, n models.ScheduledNotification) error {
	h.Send(ctx, h.owner, n)
	return nil
}

// Send pushes n to every connection of userID. Clients that fail to receive
// are dropped.
func (h *Hub) Send(_ context.Context, userID string, n models.ScheduledNotification) {
	msg := Message{Type: "notification", Notification: n, DeliveredAt: time.Now()}

	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.connections[userID]))
	for c := range h.connections[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.writeMu.Lock()
		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.Conn.WriteJSON(msg)
		c.writeMu.Unlock()
		if err != nil {
			logrus.WithError(err).WithField("user_id", c.UserID).Warn("WS write failed, dropping client")
			h.Remove(c)
		}
	}
}
