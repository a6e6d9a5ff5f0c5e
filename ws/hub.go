package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"delivery-backend/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are filtered by the CORS layer in front of the API;
	// the hub itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope is the wire format for every hub message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks live websocket connections keyed by socket id. Clients
// learn their socket id from the "connected" event and register it with
// the API so notifications can be pushed to the right connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the clients map. It exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, c := range h.clients {
				close(c.send)
				delete(h.clients, c.id)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			logger.Info("Socket connected: " + c.id)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			logger.Info("Socket disconnected: " + c.id)

		case message := <-h.broadcast:
			h.mu.Lock()
			for id, c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer, drop it.
					delete(h.clients, id)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendTo emits one event to a single connection. Returns false when the
// socket id is unknown (stale or disconnected).
func (h *Hub) SendTo(socketID, event string, data interface{}) bool {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[socketID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Broadcast emits one event to every live connection.
func (h *Hub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// ServeHTTP upgrades the request and hands the connection its socket id.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Websocket upgrade failed", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.register <- c

	// Queued directly so the hello beats any send racing the registration.
	if hello, err := json.Marshal(Envelope{Event: "connected", Data: map[string]string{"socket_id": c.id}}); err == nil {
		c.send <- hello
	}

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Inbound messages are ignored; the hub is push-only.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
