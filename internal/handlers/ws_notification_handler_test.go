package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dias221467/Solace_Notifications/internal/models"
	jwtutil "github.com/Dias221467/Solace_Notifications/pkg/jwt"
	"github.com/Dias221467/Solace_Notifications/pkg/notifier/ws"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryWebSocket(t *testing.T) {
	hub := ws.NewHub("user-1")
	srv := httptest.NewServer(http.HandlerFunc(NewDeliveryHandler(hub, "secret", "user-1").DeliveryWebSocketHandler))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	stranger, err := jwtutil.GenerateToken("user-2", "secret", time.Hour)
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token="+stranger, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	token, err := jwtutil.GenerateToken("user-1", "secret", time.Hour)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	n := models.ScheduledNotification{Identifier: "wellness_tip-1", Category: models.CategoryWellnessTip, Title: "Wellness tip"}
	require.NoError(t, hub.Dispatch(context.Background(), n))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "wellness_tip-1", msg.Notification.Identifier)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}
