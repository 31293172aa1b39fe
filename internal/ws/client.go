package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"DnsBot/bot/chat"
	"DnsBot/internal/lib/sl"
)

const (
	frameTimeout  = 10 * time.Second
	idleTimeout   = 60 * time.Second
	heartbeat     = idleTimeout / 2
	maxFrameBytes = 512
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// operators connect from a dashboard on another origin; the token guards the feed
	CheckOrigin: func(*http.Request) bool { return true },
}

// Client is one operator connection. With no filter it receives events of
// every chat.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	log      *slog.Logger

	mu     sync.Mutex
	filter *chat.ChatKey
}

func (c *Client) wants(key chat.ChatKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter == nil || *c.filter == key
}

// subscribe narrows the feed to one chat; an empty chat id widens it again.
func (c *Client) subscribe(raw json.RawMessage) {
	var key chat.ChatKey
	c.mu.Lock()
	if err := json.Unmarshal(raw, &key); err != nil || key.ChatID == "" {
		c.filter = nil
	} else {
		c.filter = &key
	}
	c.mu.Unlock()

	data, err := json.Marshal(&Event{Type: "subscribed", Data: raw})
	if err != nil {
		return
	}
	select {
	case c.hub.reply <- reply{client: c, data: data}:
	default:
	}
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
	_ = c.conn.Close()
	c.log.Debug("operator disconnected")
}

// readLoop consumes operator frames until the connection drops.
func (c *Client) readLoop() {
	defer c.leave()

	c.conn.SetReadLimit(maxFrameBytes)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	}
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read frame", sl.Err(err))
			}
			return
		}
		var ev clientEvent
		if err := json.Unmarshal(frame, &ev); err != nil {
			continue
		}
		if ev.Type == "subscribe" {
			c.subscribe(ev.Data)
		}
	}
}

// writeLoop delivers queued frames and pings an idle connection. A closed
// send queue means the hub dropped the client.
func (c *Client) writeLoop() {
	ping := time.NewTicker(heartbeat)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		_ = c.conn.SetWriteDeadline(time.Now().Add(frameTimeout))
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data, open := <-c.send:
			if !open {
				_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Authenticator validates a token and returns the operator name.
type Authenticator interface {
	ValidateToken(token string) (string, error)
}

// ServeWs upgrades an operator request. The token comes from the query since
// browsers cannot set headers on websocket requests.
func ServeWs(hub *Hub, auth Authenticator, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	username, err := auth.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", sl.Err(err))
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		username: username,
		log:      log.With(sl.Module("ws.client"), slog.String("user", username)),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}
	client.log.Debug("operator connected")

	go client.writeLoop()
	go client.readLoop()
}
