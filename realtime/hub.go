// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/darrenspencer/pollstream/models"
)

// Hub maintains the set of live viewer connections and fans poll
// updates out to all of them. There are no per-poll subscriptions:
// every viewer receives every update.
type Hub struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   Config

	broadcastCh chan []byte
}

// Connection represents one WebSocket viewer
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	hub  *Hub

	ConnectedAt time.Time
}

// Config holds WebSocket connection settings
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns default WebSocket configuration
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  512, // viewers send nothing beyond control frames
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewHub creates a connection hub with the given configuration
func NewHub(config Config) *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan []byte, 256),
	}
}

// Start begins processing broadcast messages. Blocks until ctx is done.
func (h *Hub) Start(ctx context.Context) {
	slog.Info("realtime hub started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("realtime hub shutting down")
			return
		case payload := <-h.broadcastCh:
			h.handleBroadcast(payload)
		}
	}
}

// BroadcastPollUpdated queues a pollUpdated event for every connected
// viewer. Delivery is best-effort and never blocks the caller.
func (h *Hub) BroadcastPollUpdated(poll models.Poll) {
	payload, err := json.Marshal(models.PollEvent{
		Event: models.EventPollUpdated,
		Poll:  poll,
	})
	if err != nil {
		slog.Error("failed to marshal poll event", "error", err, "poll_id", poll.ID)
		return
	}

	select {
	case h.broadcastCh <- payload:
	default:
		slog.Warn("broadcast channel full, dropping poll update", "poll_id", poll.ID)
	}
}

// ServeWS handles GET /ws - upgrades the request and registers the viewer
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response
		slog.Error("failed to upgrade WebSocket connection", "error", err)
		return
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, 64),
		hub:         h,
		ConnectedAt: time.Now(),
	}

	h.register(connection)

	go connection.writePump()
	go connection.readPump()

	slog.Info("viewer connected", "connection_id", connection.ID, "remote", r.RemoteAddr)
}

// ConnectionCount returns the number of currently connected viewers
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = true
}

func (h *Hub) unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.connections[conn]; exists {
		delete(h.connections, conn)
		close(conn.Send)
		slog.Info("viewer disconnected", "connection_id", conn.ID)
	}
}

// handleBroadcast sends a payload to every connection. A slow or dead
// viewer is evicted rather than allowed to stall the rest.
func (h *Hub) handleBroadcast(payload []byte) {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.connections))
	for conn := range h.connections {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		select {
		case conn.Send <- payload:
		default:
			slog.Warn("connection send buffer full, closing connection", "connection_id", conn.ID)
			h.unregister(conn)
			conn.Conn.Close()
		}
	}

	slog.Debug("event broadcast", "connections", len(targets))
}

// writePump serializes all writes to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				slog.Error("failed to write to WebSocket", "error", err, "connection_id", c.ID)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so control frames are processed and
// disconnects are noticed. Clients send no application messages.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected WebSocket close", "error", err, "connection_id", c.ID)
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
