package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

// Message is a table broadcast.
type Message struct {
	Type    string      `json:"type"`
	GameID  string      `json:"gameId,omitempty"`
	TableID string      `json:"tableId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Client is one websocket subscriber, bound to a single table.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	tableID string
	hub     *Hub
}

// Hub tracks the subscribers of each table and fans broadcasts out to them.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	tables     map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		tables:     make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes subscriptions until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.tables[client.tableID]; !exists {
				h.tables[client.tableID] = make(map[*Client]bool)
			}
			h.tables[client.tableID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, exists := h.tables[client.tableID]; exists {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.tables, client.tableID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToTable pushes a message to every subscriber of a table. Slow
// clients are dropped rather than blocking the sender.
func (h *Hub) BroadcastToTable(tableID string, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.tables[tableID] {
		select {
		case client.send <- payload:
		default:
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// Handler upgrades the connection and subscribes it to the requested table.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("tableId")
	if tableID == "" {
		http.Error(w, "tableId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade", "error", err)
		return
	}

	client := &Client{
		conn:    conn,
		send:    make(chan []byte, 16),
		tableID: tableID,
		hub:     h,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection. Clients don't send anything meaningful;
// reading is only needed to notice disconnects and answer pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
