package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
)

type staticAuth string

func (a staticAuth) ValidateToken(token string) (string, error) {
	if token != string(a) {
		return "", errors.New("bad token")
	}
	return "operator", nil
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, staticAuth("secret"), log, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url string) *websocket.Conn {
	t.Helper()
	before := hub.Clients()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=secret", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.Clients() == before+1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestServeWs_RejectsBadToken(t *testing.T) {
	_, url := startHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_BroadcastsDialogueEvents(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)

	hub.DialogueEvent(chat.Event{Type: chat.EventStarted, Platform: "telegram", ChatID: "7", WorkflowID: "create_record"})

	ev := readEvent(t, conn)
	assert.Equal(t, "dialogue", ev.Type)
	data := ev.Data.(map[string]any)
	assert.Equal(t, "started", data["type"])
	assert.Equal(t, "create_record", data["workflow_id"])
}

func TestHub_SubscribeFiltersByChat(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url)

	sub, err := json.Marshal(map[string]any{
		"type": "subscribe",
		"data": map[string]string{"platform": "telegram", "chat_id": "2"},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, sub))
	assert.Equal(t, "subscribed", readEvent(t, conn).Type)

	hub.DialogueEvent(chat.Event{Type: chat.EventStep, Platform: "telegram", ChatID: "1"})
	hub.DialogueEvent(chat.Event{Type: chat.EventCompleted, Platform: "telegram", ChatID: "2"})

	ev := readEvent(t, conn)
	assert.Equal(t, "2", ev.Data.(map[string]any)["chat_id"])
}
