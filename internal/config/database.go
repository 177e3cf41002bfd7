package config

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/atomic"
)

// ErrMissingMongoURI is returned by Connect when no connection string was
// configured. It is a configuration error, raised before any dial attempt.
var ErrMissingMongoURI = errors.New("MONGODB_URI environment variable is required")

// ConnState is the lifecycle state of the database handle.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateErrored
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Database holds the MongoDB client and its connection state. The state lives
// on the handle, not in a package variable, and is kept in sync with the
// driver through a server-heartbeat monitor installed once per client.
type Database struct {
	uri    string
	name   string
	logger *logrus.Logger

	mu     sync.Mutex
	state  atomic.Int32
	client *mongo.Client
	db     *mongo.Database
}

// NewDatabase creates an unconnected database handle.
func NewDatabase(uri, name string, logger *logrus.Logger) *Database {
	return &Database{uri: uri, name: name, logger: logger}
}

// State returns the current connection state.
func (d *Database) State() ConnState {
	return ConnState(d.state.Load())
}

// Connect establishes the connection. It is idempotent: when already
// connected it logs and returns immediately, and concurrent calls serialize
// on the handle, so the heartbeat monitor can never be installed twice. On
// failure the state is errored and the wrapped cause is returned; the caller
// decides whether to retry.
func (d *Database) Connect(ctx context.Context) (ConnState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() == StateConnected {
		d.logger.Debug("Already connected to the database")
		return StateConnected, nil
	}

	if d.uri == "" {
		return d.State(), ErrMissingMongoURI
	}

	d.state.Store(int32(StateConnecting))
	d.logger.Info("Connecting to the database...")

	monitor := &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			d.state.Store(int32(StateConnected))
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			d.state.Store(int32(StateErrored))
			d.logger.WithError(e.Failure).Warn("Database heartbeat failed")
		},
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(d.uri).SetServerMonitor(monitor))
	if err != nil {
		d.state.Store(int32(StateErrored))
		return StateErrored, fmt.Errorf("database connection failed: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		d.state.Store(int32(StateErrored))
		return StateErrored, fmt.Errorf("database connection failed: %w", err)
	}

	d.client = client
	d.db = client.Database(d.name)
	d.state.Store(int32(StateConnected))
	d.logger.Info("Database connected successfully")

	if err := d.ensureIndexes(ctx); err != nil {
		d.logger.WithError(err).Warn("Failed to ensure indexes")
	}

	return StateConnected, nil
}

// DB returns the database handle. Only valid after a successful Connect.
func (d *Database) DB() *mongo.Database {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db
}

// Ping reports whether the database currently answers.
func (d *Database) Ping(ctx context.Context) error {
	d.mu.Lock()
	client := d.client
	d.mu.Unlock()

	if client == nil {
		return errors.New("database is not connected")
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the database.
func (d *Database) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Disconnect(ctx)
	d.client = nil
	d.db = nil
	d.state.Store(int32(StateDisconnected))
	if err != nil {
		return fmt.Errorf("failed to disconnect from database: %w", err)
	}
	d.logger.Info("Database connection closed")
	return nil
}

// ensureIndexes creates the indexes the comment flow leans on. This replaces
// a separate migration step.
func (d *Database) ensureIndexes(ctx context.Context) error {
	_, err := d.db.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "taskRef", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index comments.taskRef: %w", err)
	}

	_, err = d.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to index users.username: %w", err)
	}
	return nil
}
