// Package realtime fans server events out to websocket clients grouped in rooms.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/metrics"
	"github.com/sirupsen/logrus"
)

// DefaultSendBuffer is the number of queued messages a client may fall behind
// before new messages to it are dropped
const DefaultSendBuffer = 32

// Message is the frame written to clients
type Message struct {
	Event     string      `json:"event"`
	Room      string      `json:"room"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one websocket connection and the rooms it joined
type Client struct {
	ID     string
	UserID uuid.UUID
	rooms  []string
	send   chan Message
}

// Rooms returns the rooms the client is joined to
func (c *Client) Rooms() []string {
	return c.rooms
}

// Hub tracks clients by room. EmitToRoom never blocks.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
	buffer  int
	metrics metrics.Recorder
	logger  *logrus.Logger
}

// NewHub creates an empty hub. sendBuffer <= 0 uses DefaultSendBuffer.
func NewHub(sendBuffer int, recorder metrics.Recorder, logger *logrus.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		buffer:  sendBuffer,
		metrics: recorder,
		logger:  logger,
	}
}

// NewClient creates an unregistered client for userID joined to rooms
func (h *Hub) NewClient(userID uuid.UUID, rooms ...string) *Client {
	joined := make([]string, 0, len(rooms))
	seen := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		if room == "" || seen[room] {
			continue
		}
		seen[room] = true
		joined = append(joined, room)
	}
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		rooms:  joined,
		send:   make(chan Message, h.buffer),
	}
}

// Register adds the client to the hub and its rooms
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	for _, room := range c.rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[string]*Client)
			h.rooms[room] = members
		}
		members[c.ID] = c
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.RealtimeConnections(count)
	h.logger.WithFields(logrus.Fields{
		"client_id": c.ID,
		"user_id":   c.UserID,
		"rooms":     c.rooms,
	}).Debug("Realtime client registered")
}

// Unregister removes the client and closes its send channel. Calling it
// twice is safe.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	for _, room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.RealtimeConnections(count)
	h.logger.WithField("client_id", c.ID).Debug("Realtime client unregistered")
}

// EmitToRoom queues event for every client in room. Clients whose buffer is
// full miss the message.
func (h *Hub) EmitToRoom(room, event string, payload interface{}) {
	msg := Message{Event: event, Room: room, Data: payload, Timestamp: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[room] {
		select {
		case c.send <- msg:
		default:
			h.logger.WithFields(logrus.Fields{
				"client_id": c.ID,
				"room":      room,
				"event":     event,
			}).Warn("Realtime client too slow, dropping message")
		}
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of clients joined to room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close unregisters every client, which ends their connections
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}
