package wsfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"citysim/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	MessageTile     = "tile"
	MessageSnapshot = "snapshot"

	defaultBuffer = 256
	writeWait     = 5 * time.Second
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub fans tile refreshes and snapshots out to websocket clients. Refresh and
// Publish never block; messages are dropped when the broadcast buffer is full.
type Hub struct {
	// Welcome, when set, is sent to every client right after it connects.
	Welcome func() city.Snapshot

	upgrader   websocket.Upgrader
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	connected atomic.Int64
	dropped   atomic.Uint64
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		upgrader:   websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		clients:    map[*client]struct{}{},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, buffer),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.connected.Add(1)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					hlog.Warnf("feed client %s is too slow, disconnecting", c.id)
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.connected.Add(-1)
}

func (h *Hub) Clients() int { return int(h.connected.Load()) }

func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Refresh implements city.View.
func (h *Hub) Refresh(v city.TileView) {
	h.enqueue(Message{Type: MessageTile, Payload: v})
}

// Publish implements ports.SnapshotPublisher.
func (h *Hub) Publish(s city.Snapshot) {
	h.enqueue(Message{Type: MessageSnapshot, Payload: s})
}

func (h *Hub) enqueue(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		hlog.Errorf("encode feed message %s: %v", m.Type, err)
		return
	}
	select {
	case h.broadcast <- b:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.Warnf("feed upgrade failed: %v", err)
		return
	}
	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, defaultBuffer)}
	if h.Welcome != nil {
		if b, err := json.Marshal(Message{Type: MessageSnapshot, Payload: h.Welcome()}); err == nil {
			c.send <- b
		}
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go h.writer(c)
	go h.reader(c)
}

func (h *Hub) writer(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// reader discards client input and unregisters on disconnect.
func (h *Hub) reader(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
