// Package metrics exposes the Prometheus instrumentation for the socket
// backend. Collectors register on the default registry and are served by the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connections tracks currently open websocket connections.
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "worktrack_ws_connections",
		Help: "Number of open websocket connections.",
	})

	// Events counts inbound socket events by name.
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktrack_ws_events_total",
		Help: "Inbound socket events by event name.",
	}, []string{"event"})

	// EventErrors counts events that ended in an error emission.
	EventErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktrack_ws_event_errors_total",
		Help: "Socket events answered with an error, by event name.",
	}, []string{"event"})

	// Broadcasts counts room broadcasts by outbound event name.
	Broadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktrack_ws_broadcasts_total",
		Help: "Room broadcasts by outbound event name.",
	}, []string{"event"})
)
