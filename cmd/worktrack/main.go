package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"github.com/sudha-chandrann/WorkTrackBackend/internal/api"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/config"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/repository/mongodb"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/service"
	"github.com/sudha-chandrann/WorkTrackBackend/internal/ws"
	"github.com/sudha-chandrann/WorkTrackBackend/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting WorkTrack backend...")

	// Database
	db := config.NewDatabase(cfg.MongoURI, cfg.DatabaseName, l)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := db.Connect(connectCtx); err != nil {
		cancelConnect()
		l.Fatalf("Failed to connect to database: %v", err)
	}
	cancelConnect()

	// Repositories
	todoRepo := mongodb.NewTodoRepository(db.DB())
	commentRepo := mongodb.NewCommentRepository(db.DB())
	teamRepo := mongodb.NewTeamRepository(db.DB())
	userRepo := mongodb.NewUserRepository(db.DB())

	// Service layer
	svc := service.New(l, todoRepo, commentRepo, teamRepo, userRepo)

	// Websocket hub and event routing
	hub := ws.NewHub(l)
	router := ws.NewRouter(l)
	ws.NewHandlers(svc, hub, l).Register(router)

	// HTTP server
	apiServer := api.NewServer(hub, router, db, cfg.AllowedOrigin, l)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: apiServer.Handler(),
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	go func() {
		l.Infof("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	l.Info("WorkTrack backend started successfully")

	<-ctx.Done()

	l.Info("Shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	var result *multierror.Error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	hub.Close()
	if err := db.Close(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		l.Errorf("Shutdown finished with errors: %v", err)
	} else {
		l.Info("WorkTrack backend stopped")
	}
}
