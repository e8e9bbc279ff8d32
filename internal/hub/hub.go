package hub

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/publisher"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The sign runs on a home LAN; any origin may watch the preview.
	CheckOrigin: func(*http.Request) bool { return true },
}

// client is one connected websocket viewer
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains connected viewers and broadcasts display events to
// them, so a browser can mirror what the physical sign is showing.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool

	broadcast  chan publisher.DisplayEvent
	register   chan *client
	unregister chan *client
}

// New creates a hub
func New() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan publisher.DisplayEvent, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run starts the hub's main loop and blocks until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			log.Printf("[hub] viewer %s connected (total: %d)", c.id, h.count())
		case c := <-h.unregister:
			h.drop(c)
		case ev := <-h.broadcast:
			h.fanout(ev)
		}
	}
}

// Broadcast queues a display event for all connected viewers. Events
// are dropped rather than blocking the display loop when the buffer
// fills.
func (h *Hub) Broadcast(ev publisher.DisplayEvent) {
	select {
	case h.broadcast <- ev:
	default:
		log.Println("[hub] broadcast buffer full, dropping event")
	}
}

// ServeWS upgrades an HTTP request to a viewer connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[hub] upgrade: %v", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register <- c

	go c.writeLoop()
	go c.readLoop(h)
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		log.Printf("[hub] viewer %s disconnected (total: %d)", c.id, len(h.clients))
	}
}

func (h *Hub) fanout(ev publisher.DisplayEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[hub] marshal: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow viewer; skip this event for them.
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *client) readLoop(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
