package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 32
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks the connected WebSocket clients and fans messages out to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	dropped atomic.Uint64
	log     *slog.Logger
}

// Client is one WebSocket connection. Only writePump writes to conn.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     logger.Get().With("component", "websocket"),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Broadcast encodes msg once and queues it for every client. A client whose
// queue is full misses the message.
func (h *Hub) Broadcast(msg models.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Failed to encode broadcast", "type", msg.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !client.enqueue(payload) {
			h.dropped.Add(1)
			h.log.Warn("Dropping message for slow client", "type", msg.Type)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.unregister(client)
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()

	client.closeOnce.Do(func() {
		close(client.done)
		client.conn.Close()
	})
}

// HandleWebSocket upgrades the request and serves the client until it
// disconnects. The latest reading, if any, is sent first.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	if data, err := latestReading(config.DB); err == nil {
		client.sendMessage(models.Message{Type: models.MessageSensorData, Data: data})
	}

	h.register(client)
	h.log.Info("WebSocket client connected", "remote", c.Request.RemoteAddr, "clients", h.ClientCount())

	go client.writePump()
	client.readPump()

	h.log.Info("WebSocket client disconnected", "remote", c.Request.RemoteAddr, "clients", h.ClientCount())
}

func (c *Client) enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) sendMessage(msg models.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error("Failed to encode message", "type", msg.Type, "error", err)
		return
	}
	if !c.enqueue(payload) {
		c.hub.dropped.Add(1)
	}
}

func (c *Client) sendError(message string) {
	c.sendMessage(models.Message{Type: models.MessageError, Data: models.ErrorPayload{Message: message}})
}

func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("WebSocket read failed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handleMessage(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.unregister(c)
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg models.InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Error processing message")
		return
	}

	switch msg.Type {
	case models.MessagePing:
		var ping models.PingPayload
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &ping); err != nil {
				c.sendError("Error processing message")
				return
			}
		}
		if ping.Timestamp == nil {
			ping.Timestamp = json.RawMessage("null")
		}
		c.sendMessage(models.Message{Type: models.MessagePong, Data: ping})

	case models.MessagePong:

	case models.MessageCommand:
		if err := c.handleCommand(msg.Data); err != nil {
			if errors.Is(err, ErrNoSensorData) {
				c.sendError("No sensor data available")
				return
			}
			c.hub.log.Warn("Command failed", "error", err)
			c.sendError("Error processing message")
		}

	default:
		c.hub.log.Debug("Ignoring message", "type", msg.Type)
	}
}

func (c *Client) handleCommand(data json.RawMessage) error {
	var cmd models.CommandPayload
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("invalid command payload: %w", err)
	}

	if _, err := ExecuteCommand(c.hub, cmd.Target, cmd.Action); err != nil {
		return err
	}

	c.sendMessage(models.Message{
		Type: models.MessageCommandResponse,
		Data: models.CommandResponse{
			Status:  "success",
			Message: fmt.Sprintf("%s %s command processed successfully", cmd.Target, cmd.Action),
			Target:  cmd.Target,
			Action:  cmd.Action,
		},
	})
	return nil
}
