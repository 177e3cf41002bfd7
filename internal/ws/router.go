package ws

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/metrics"
)

// HandlerFunc processes one inbound event for one connection. Returning an
// error means the failure was unexpected; the router answers the sender with
// a generic error message. Expected failures (validation, not found,
// authorization) are emitted by the handler itself.
type HandlerFunc func(ctx context.Context, c *Client, data json.RawMessage) error

// Router dispatches inbound events to their handlers.
type Router struct {
	logger   *logrus.Logger
	handlers map[string]HandlerFunc
}

// NewRouter creates an empty event router.
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register registers a handler for an event name.
func (r *Router) Register(event string, handler HandlerFunc) {
	r.handlers[event] = handler
	r.logger.Debugf("Registered event: %s", event)
}

// Dispatch routes one envelope to its handler. It is the error boundary for
// the connection: handler errors and panics become an error emission to the
// sender and never tear down the connection or the process.
func (r *Router) Dispatch(c *Client, env Envelope) {
	r.logger.WithFields(logrus.Fields{
		"client_id": c.ID,
		"event":     env.Event,
	}).Info("Received event")
	metrics.Events.WithLabelValues(env.Event).Inc()

	handler, ok := r.handlers[env.Event]
	if !ok {
		r.logger.WithFields(logrus.Fields{
			"client_id": c.ID,
			"event":     env.Event,
		}).Warn("Unknown event")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"client_id": c.ID,
				"event":     env.Event,
				"panic":     rec,
			}).Error("Event handler panicked")
			metrics.EventErrors.WithLabelValues(env.Event).Inc()
			c.Emit(EventError, ErrorPayload{Success: false, Message: failureMessage(env.Event)})
		}
	}()

	if err := handler(context.Background(), c, env.Data); err != nil {
		r.logger.WithFields(logrus.Fields{
			"client_id": c.ID,
			"event":     env.Event,
			"error":     err,
		}).Error("Event handler failed")
		metrics.EventErrors.WithLabelValues(env.Event).Inc()
		c.Emit(EventError, ErrorPayload{Success: false, Message: failureMessage(env.Event)})
	}
}
