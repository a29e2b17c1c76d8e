package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := hub.Add(r.URL.Query().Get("user"), conn)
		defer hub.Remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, user string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?user="+user, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_DeliversOnlyToOwner(t *testing.T) {
	hub := NewHub("alice")
	url := newTestServer(t, hub)
	alice := dial(t, url, "alice")
	bob := dial(t, url, "bob")
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	n := models.ScheduledNotification{
		Identifier: "crisis_support-1",
		Category:   models.CategoryCrisisSupport,
		Payload:    map[string]interface{}{"kind": "crisis_check_in"},
	}
	require.NoError(t, hub.Dispatch(context.Background(), n))

	_ = alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, alice.ReadJSON(&msg))
	assert.Equal(t, "crisis_support-1", msg.Notification.Identifier)

	_ = bob.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := bob.ReadMessage()
	assert.Error(t, err, "another user must not receive the owner's notification")
}

func TestHub_RemoveTwice(t *testing.T) {
	hub := NewHub("alice")
	url := newTestServer(t, hub)
	dial(t, url, "alice")
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	var c *Connection
	for conn := range hub.connections["alice"] {
		c = conn
	}
	hub.mu.RUnlock()

	hub.Remove(c)
	hub.Remove(c)
	assert.Zero(t, hub.Count())
}
