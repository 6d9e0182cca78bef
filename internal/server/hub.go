package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ReloadMessage is sent to clients when the content tree changes.
const ReloadMessage = "reload"

const writeWait = 5 * time.Second

// A nil CheckOrigin rejects handshakes whose Origin host differs from the
// request host.
var upgrader = websocket.Upgrader{}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // one writer at a time
}

func (c *client) send(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

// Hub pushes reload notifications to open pages over websockets.
type Hub struct {
	logger  *zap.Logger
	metrics *Metrics

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub. metrics may be nil.
func NewHub(logger *zap.Logger, metrics *Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, metrics: metrics, clients: make(map[*client]struct{})}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	c := &client{conn: conn}
	h.add(c)
	defer h.remove(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}
	}
}

// Broadcast sends msg to every client, dropping those that fail.
func (h *Hub) Broadcast(msg string) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			h.logger.Debug("dropping reload client", zap.Error(err))
			h.remove(c)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.conn.Close()
	}
	h.setGauge(0)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.setGauge(n)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
		h.setGauge(n)
	}
}

func (h *Hub) setGauge(n int) {
	if h.metrics != nil {
		h.metrics.ReloadClients.Set(float64(n))
	}
}
