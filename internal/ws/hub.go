package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/metrics"
)

// Hub tracks connected clients and their room memberships. A room is a plain
// broadcast label: joining needs no validation, and membership ends when the
// connection goes away.
type Hub struct {
	logger *logrus.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register adds a newly connected client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	metrics.Connections.Inc()
	h.logger.WithField("client_id", c.ID).Info("New client connected")
}

// Unregister drops a client and all of its room memberships and shuts its
// connection down. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, known := h.clients[c]
	if known {
		delete(h.clients, c)
		for room, members := range h.rooms {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()

	if known {
		c.shutdown()
		metrics.Connections.Dec()
		h.logger.WithField("client_id", c.ID).Info("Client disconnected")
	}
}

// Join adds the client to a room. Joining the same room twice is a no-op.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	if _, known := h.clients[c]; known {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Client]struct{})
			h.rooms[room] = members
		}
		members[c] = struct{}{}
	}
	h.mu.Unlock()
}

// Rooms returns the rooms the client currently belongs to.
func (h *Hub) Rooms(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var rooms []string
	for room, members := range h.rooms {
		if _, ok := members[c]; ok {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// Broadcast sends an event to every connection in the room, the sender
// included if it joined. A client whose outbound buffer is full is dropped
// rather than allowed to stall the room.
func (h *Hub) Broadcast(room, event string, payload any) {
	msg, err := json.Marshal(Envelope{Event: event, Data: marshalData(payload)})
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("Failed to encode broadcast")
		return
	}

	var stalled []*Client
	h.mu.Lock()
	for c := range h.rooms[room] {
		select {
		case c.send <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	n := len(h.rooms[room])
	h.mu.Unlock()

	for _, c := range stalled {
		h.logger.WithField("client_id", c.ID).Warn("Dropping client with full send buffer")
		h.Unregister(c)
	}

	metrics.Broadcasts.WithLabelValues(event).Inc()
	h.logger.WithFields(logrus.Fields{
		"room":    room,
		"event":   event,
		"clients": n,
	}).Debug("Broadcast sent")
}

// Close disconnects every client. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}

func marshalData(payload any) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
