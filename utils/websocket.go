// utils/websocket.go
package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// In production, check origin against allowed domains
		return true
	},
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		log.Printf("WebSocket upgrade error: %v, status: %d", reason, status)
	},
}

var connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "okrdeck_websocket_clients",
	Help: "Currently connected dashboard clients.",
})

// Client represents one connected dashboard client.
type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Send chan []byte
}

// Manager fans dashboard events out to every connected client. Delivery is
// best effort: a client whose send buffer is full gets dropped.
type Manager struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewManager creates a new websocket manager.
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Start runs the manager loop. Call it in its own goroutine.
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client] = true
			m.mutex.Unlock()
			connectedClients.Inc()

		case client := <-m.unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.Send)
				connectedClients.Dec()
			}
			m.mutex.Unlock()

		case message := <-m.broadcast:
			m.mutex.Lock()
			for client := range m.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(m.clients, client)
					connectedClients.Dec()
				}
			}
			m.mutex.Unlock()
		}
	}
}

// broadcastEnvelope is the wire shape of every pushed event.
type broadcastEnvelope struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// Broadcast queues an event for every connected client and returns
// immediately. When the queue is full the event is dropped; the caller's
// state change is already committed and must not depend on delivery.
func (m *Manager) Broadcast(eventType string, data any) {
	payload, err := json.Marshal(broadcastEnvelope{Type: eventType, Data: data, At: time.Now()})
	if err != nil {
		log.Printf("failed to encode %s broadcast: %v", eventType, err)
		return
	}
	select {
	case m.broadcast <- payload:
	default:
		log.Printf("broadcast queue full, dropping %s event", eventType)
	}
}

// ServeWs upgrades the request and registers the client with the manager.
func (m *Manager) ServeWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Error upgrading connection to WebSocket: %v", err)
		return
	}

	client := &Client{
		ID:   uuid.New(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	m.register <- client

	go client.writePump(m)
	go client.readPump(m)
}

// writePump pumps queued events to the websocket connection.
func (c *Client) writePump(manager *Manager) {
	pingTicker := time.NewTicker(15 * time.Second)
	defer func() {
		pingTicker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain any queued events into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-pingTicker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive and discards anything the client
// sends; the dashboard stream is one-way.
func (c *Client) readPump(manager *Manager) {
	defer func() {
		manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024)
	c.Conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for client %s: %v", c.ID.String(), err)
			}
			break
		}
	}
}
