package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// writeWait is the deadline for a single outbound write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead; pings go out at pingPeriod to keep it alive.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8 << 10
	sendBufferSize = 64
)

// Client is one websocket connection. Outbound messages go through a buffered
// channel drained by a single writer goroutine, so handlers and broadcasts
// never write to the socket directly.
type Client struct {
	ID string

	hub    *Hub
	conn   *websocket.Conn
	router *Router
	logger *logrus.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an accepted websocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, router *Router, logger *logrus.Logger) *Client {
	return &Client{
		ID:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		router: router,
		logger: logger,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// Run registers the client with the hub and pumps the connection until it
// closes. It blocks for the lifetime of the connection.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

// Emit sends an event to this connection only. A full buffer drops the
// message rather than blocking the caller.
func (c *Client) Emit(event string, payload any) {
	msg, err := json.Marshal(Envelope{Event: event, Data: marshalData(payload)})
	if err != nil {
		c.logger.WithError(err).WithField("event", event).Error("Failed to encode event")
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- msg:
	default:
		c.logger.WithFields(logrus.Fields{
			"client_id": c.ID,
			"event":     event,
		}).Warn("Send buffer full, dropping event")
	}
}

// shutdown signals the writer to stop and closes the underlying connection.
// Safe to call more than once.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// readPump reads inbound envelopes and dispatches each one before reading the
// next, so one connection's handlers always run in the order its messages were
// sent. Connections stay concurrent with each other through their own pumps.
func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).WithField("client_id", c.ID).Warn("Read failed")
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			c.logger.WithError(err).WithField("client_id", c.ID).Warn("Dropping malformed message")
			continue
		}

		c.router.Dispatch(c, env)
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
