package handlers

import (
	"net/http"
	"time"

	jwtutil "github.com/Dias221467/Solace_Notifications/pkg/jwt"
	"github.com/Dias221467/Solace_Notifications/pkg/notifier/ws"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const pongWait = 60 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// DeliveryHandler streams delivered notifications to the app over a websocket.
// Only the owner may subscribe.
type DeliveryHandler struct {
	Hub       *ws.Hub
	JWTSecret string
	Owner     string
}

func NewDeliveryHandler(hub *ws.Hub, jwtSecret, owner string) *DeliveryHandler {
	return &DeliveryHandler{Hub: hub, JWTSecret: jwtSecret, Owner: owner}
}

// GET /ws?token=...
func (h *DeliveryHandler) DeliveryWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	if h.Owner != "" && claims.UserID != h.Owner {
		logrus.WithField("user_id", claims.UserID).Warn("WebSocket rejected, not the owner")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := h.Hub.Add(claims.UserID, conn)
	defer h.Hub.Remove(c)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		c.LastSeen = time.Now()
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The client only listens; reading keeps control frames flowing and
	// detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("user_id", claims.UserID).Warn("WebSocket closed unexpectedly")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
