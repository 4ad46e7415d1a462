// Package realtime pushes map scenes to connected browsers over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"

	"github.com/qpath-optimizer/backend/internal/models"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans scenes out to every websocket of one session. It implements canvas.Sink.
type Hub struct {
	logger log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	last    []byte
	closed  bool
}

// NewHub creates an empty hub
func NewHub(logger log.Logger) *Hub {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Publish sends scene to every client and keeps it for late joiners
func (h *Hub) Publish(scene models.Scene) {
	data, err := json.Marshal(scene)
	if err != nil {
		level.Error(h.logger).Log("msg", "failed to encode scene", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		if err := write(c, data); err != nil {
			level.Debug(h.logger).Log("msg", "dropping websocket client", "err", err)
			c.Close()
			delete(h.clients, c)
		}
	}
}

// Serve upgrades the request and sends the latest scene straight away
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		level.Warn(h.logger).Log("msg", "websocket upgrade failed", "err", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = struct{}{}
	if h.last != nil {
		if err := write(conn, h.last); err != nil {
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			return
		}
	}
	h.mu.Unlock()

	go h.readPump(conn)
}

// Clients returns the number of connected websockets
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
			time.Now().Add(writeWait))
		c.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// readPump discards client messages and notices disconnects
func (h *Hub) readPump(c *websocket.Conn) {
	defer func() {
		h.remove(c)
		_ = c.Close()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func write(c *websocket.Conn, data []byte) error {
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, data)
}

// ServeHTTP lets a Hub be mounted directly as a handler
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Serve(w, r)
}
