package websocket

import (
	"sync"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/config"
)

// envelope is a message routed by machine. A nil machineID marks a
// fleet-wide message delivered to every client.
type envelope struct {
	machineID *int
	data      []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	settings   *WebSocketSettings
}

func NewHub(cfg *config.WebSocketConfig) *Hub {
	settings := NewWebSocketSettings(cfg)

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, settings.BroadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings:   settings,
	}
}

func (h *Hub) Settings() *WebSocketSettings {
	return h.settings
}

// Run serves registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.WithComponent("websocket").Infof("Client connected (total: %d)", h.ClientCount())

		case client := <-h.unregister:
			h.remove(client)
			logger.WithComponent("websocket").Infof("Client disconnected (total: %d)", h.ClientCount())

		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// deliver sends env to every interested client. Clients whose buffers are
// full are disconnected.
func (h *Hub) deliver(env envelope) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if !client.wants(env.machineID) {
			continue
		}
		select {
		case client.send <- env.data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		logger.WithComponent("websocket").Warn("Client too slow, disconnecting")
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// Broadcast queues a fleet-wide message for every client.
func (h *Hub) Broadcast(message []byte) {
	h.enqueue(envelope{data: message})
}

// BroadcastToMachine queues a message for clients watching machineID and
// for clients watching the whole fleet.
func (h *Hub) BroadcastToMachine(machineID int, message []byte) {
	h.enqueue(envelope{machineID: &machineID, data: message})
}

func (h *Hub) enqueue(env envelope) {
	select {
	case h.broadcast <- env:
	default:
		logger.WithComponent("websocket").Warn("Broadcast channel full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Full reports whether the connection limit has been reached.
func (h *Hub) Full() bool {
	return h.ClientCount() >= h.settings.MaxConnections
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
