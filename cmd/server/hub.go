package main

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vantage-journal/internal/observability"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	// Read deadline must outlast the ping interval or healthy clients get dropped.
	wsPongTimeout = 60 * time.Second

	// Per-client buffered payloads. A client that cannot drain this many
	// broadcasts is disconnected rather than blocking the hub.
	wsSendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The journal UI is served from its own origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans analytics payloads out to connected WebSocket clients. Clients
// subscribe per user; a broadcast for one user never reaches another's
// connection.
type Hub struct {
	logger *log.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// ServeWS upgrades the request and registers the connection for the user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade: %v", err)
		return
	}

	c := &wsClient{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, wsSendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	observability.DefaultMetrics.WSClientsConnected.Set(float64(n))

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues a payload for every client subscribed to the user.
// Slow clients are dropped.
func (h *Hub) Broadcast(userID string, payload []byte) {
	h.mu.RLock()
	var stale []*wsClient
	sent := false
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- payload:
			sent = true
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.logger.Printf("dropping slow websocket client for user %s", userID)
		h.remove(c)
	}
	if sent {
		observability.DefaultMetrics.WSBroadcastsTotal.Inc()
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		observability.DefaultMetrics.WSClientsConnected.Set(float64(n))
	}
}

// writePump writes queued payloads and keeps the connection alive with pings.
func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump discards client messages; the socket is push-only. It exists to
// process control frames and to detect closed connections.
func (h *Hub) readPump(c *wsClient) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
