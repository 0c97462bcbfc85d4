package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/registry"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/monitoring"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Message is the JSON frame exchanged with clients
type Message struct {
	Type      string             `json:"type"`
	Message   string             `json:"message,omitempty"`
	ClientID  string             `json:"client_id,omitempty"`
	Event     registry.EventKind `json:"event,omitempty"`
	ID        string             `json:"id,omitempty"`
	Count     int                `json:"count"`
	Timestamp int64              `json:"timestamp"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and broadcasts registry events
type Hub struct {
	metrics *monitoring.Metrics
	logger  *zap.Logger

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

// NewHub creates a hub. metrics may be nil.
func NewHub(metrics *monitoring.Metrics, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		metrics: metrics,
		logger:  logger.Named("ws"),
		clients: make(map[string]*client),
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish broadcasts ev to every client. It is safe to pass directly to
// registry.Subscribe.
func (h *Hub) Publish(ev registry.Event) {
	data, err := encode(Message{Type: "products", Event: ev.Kind, ID: ev.ID, Count: ev.Count})
	if err != nil {
		h.logger.Error("Failed to encode event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		if h.enqueue(c, data) {
			h.record("out", "products")
		}
	}
}

// HandleConnection upgrades the request and serves the client until it
// disconnects or the hub closes.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{id: uuid.New().String(), conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(cl) {
		conn.Close()
		return
	}
	defer h.unregister(cl)

	go h.writePump(cl)

	h.reply(cl, Message{Type: "system", Message: "connected", ClientID: cl.id})

	for {
		var msg Message
		if err := cl.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.String("client_id", cl.id), zap.Error(err))
			}
			return
		}
		h.record("in", msg.Type)

		switch msg.Type {
		case "ping":
			h.reply(cl, Message{Type: "pong"})
		default:
			h.reply(cl, Message{Type: "error", Message: "unknown message type"})
		}
	}
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		h.drop(id, c)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Debug("Client connected", zap.String("client_id", c.id))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		h.drop(c.id, c)
	}
}

// drop removes a client; callers hold mu.
func (h *Hub) drop(id string, c *client) {
	delete(h.clients, id)
	close(c.send)
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	h.logger.Debug("Client disconnected", zap.String("client_id", id))
}

func (h *Hub) reply(c *client, msg Message) {
	data, err := encode(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok && h.enqueue(c, data) {
		h.record("out", msg.Type)
	}
}

// enqueue sends without blocking; callers hold mu.
func (h *Hub) enqueue(c *client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		h.logger.Warn("Client buffer full, dropping message", zap.String("client_id", c.id))
		return false
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("WebSocket write error", zap.String("client_id", c.id), zap.Error(err))
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (h *Hub) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

func encode(msg Message) ([]byte, error) {
	msg.Timestamp = time.Now().Unix()
	return sonic.Marshal(msg)
}
