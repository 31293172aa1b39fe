package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"DnsBot/bot/chat"
	"DnsBot/internal/lib/sl"
)

// Event is one frame sent to operators.
type Event struct {
	Type string `json:"type"` // "dialogue", "subscribed"
	Data any    `json:"data"`
}

// Hub keeps the connected operator clients and fans dialogue events out to
// them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan chat.Event
	register   chan *Client
	unregister chan *Client
	reply      chan reply
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan chat.Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		reply:      make(chan reply, 16),
		done:       make(chan struct{}),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// Run is the hub's event loop; it returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()
		case r := <-h.reply:
			h.mu.Lock()
			if h.clients[r.client] {
				h.offer(r.client, r.data, false)
			}
			h.mu.Unlock()
		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

func (h *Hub) fanOut(ev chat.Event) {
	data, err := json.Marshal(&Event{Type: "dialogue", Data: ev})
	if err != nil {
		h.log.Error("encode event", sl.Err(err))
		return
	}
	key := chat.ChatKey{Platform: ev.Platform, ChatID: ev.ChatID}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.wants(key) {
			h.offer(client, data, true)
		}
	}
}

// offer queues a frame without blocking. A client too slow to keep up is
// dropped when evict is set, otherwise the frame is.
func (h *Hub) offer(client *Client, data []byte, evict bool) {
	select {
	case client.send <- data:
	default:
		if evict {
			h.log.Warn("dropping slow operator", slog.String("user", client.username))
			h.drop(client)
		}
	}
}

// drop forgets a client. Callers hold mu.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.drop(client)
	}
}

// DialogueEvent queues the event for broadcast. It never blocks the engine:
// when the queue is full the event is dropped.
func (h *Hub) DialogueEvent(ev chat.Event) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn("event queue full, dropping", slog.String("type", ev.Type))
	}
}

// Clients returns the number of connected operators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// reply is a frame addressed to a single client.
type reply struct {
	client *Client
	data   []byte
}

// clientEvent is a frame sent by an operator.
type clientEvent struct {
	Type string          `json:"type"` // "subscribe"
	Data json.RawMessage `json:"data"`
}
