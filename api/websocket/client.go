package websocket

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu        sync.RWMutex
	machineID *int
}

// IncomingMessage is a subscription request. An absent machine_id on
// subscribe, or any unsubscribe, returns the client to the fleet-wide feed.
type IncomingMessage struct {
	Type      string `json:"type"`
	MachineID *int   `json:"machine_id,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, machineID *int) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, hub.settings.ClientBuffer),
		machineID: machineID,
	}
}

// wants reports whether a message for machineID should reach this client.
// Fleet-wide messages reach everybody.
func (c *Client) wants(machineID *int) bool {
	if machineID == nil {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.machineID == nil || *c.machineID == *machineID
}

func (c *Client) subscription() *int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.machineID
}

func (c *Client) setSubscription(machineID *int) {
	c.mu.Lock()
	c.machineID = machineID
	c.mu.Unlock()
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	settings := c.hub.settings
	c.conn.SetReadLimit(settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.WithComponent("websocket").Errorf("Read error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	settings := c.hub.settings
	ticker := time.NewTicker(settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Coalesce queued messages into the same frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		c.setSubscription(msg.MachineID)
		if msg.MachineID != nil {
			logger.WithComponent("websocket").Debugf("Client subscribed to machine %d", *msg.MachineID)
		}
		c.sendConfirmation("subscribed", msg.MachineID)
	case "unsubscribe":
		previous := c.subscription()
		c.setSubscription(nil)
		c.sendConfirmation("unsubscribed", previous)
	}
}

func (c *Client) sendConfirmation(action string, machineID *int) {
	data, err := json.Marshal(NewSubscriptionUpdate(action, machineID))
	if err != nil {
		logger.WithComponent("websocket").Errorf("Failed to marshal confirmation: %v", err)
		return
	}
	// The hub may have closed send already; the recover keeps a late
	// confirmation from panicking the read pump.
	defer func() { _ = recover() }()
	select {
	case c.send <- data:
	default:
		logger.WithComponent("websocket").Warn("Client send channel full, dropping confirmation")
	}
}

// ServeWebSocket upgrades the request. ?machine_id=N narrows the feed to one
// machine.
func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  hub.settings.ReadBufferSize,
		WriteBufferSize: hub.settings.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(c *gin.Context) {
		var machineID *int
		if raw := c.Query("machine_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil || id < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid machine_id"})
				return
			}
			machineID = &id
		}

		if hub.Full() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many websocket connections"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithComponent("websocket").Errorf("Upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, machineID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
