package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/config"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/ws"
)

// Server provides the HTTP surface: the websocket upgrade endpoint, a static
// welcome page, health, and metrics.
type Server struct {
	hub      *ws.Hub
	router   *ws.Router
	db       *config.Database
	logger   *logrus.Logger
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(hub *ws.Hub, router *ws.Router, db *config.Database, allowedOrigin string, logger *logrus.Logger) *Server {
	s := &Server{
		hub:    hub,
		router: router,
		db:     db,
		logger: logger,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /ws", s.handleWebsocket)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /", s.handleIndex)
}

// originChecker allows everything for the wildcard origin and otherwise
// requires an exact match on the Origin header.
func originChecker(allowed string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "*" {
			return true
		}
		return r.Header.Get("Origin") == allowed
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := ws.NewClient(s.hub, conn, s.router, s.logger)
	client.Run()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to the WorkTrack real-time API"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "down",
			"error":  err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}
