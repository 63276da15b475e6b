package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds document store configuration.
type Config struct {
	URI      string
	Database string
}

// DefaultConfig returns a local development configuration.
func DefaultConfig() Config {
	return Config{
		URI:      "mongodb://localhost:27017",
		Database: "movie_catalog",
	}
}

// Connection wraps the mongo client and the selected database.
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewConnection connects to the document store and verifies the connection
// with a ping before handing it out.
func NewConnection(ctx context.Context, config Config) (*Connection, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping document store: %w", err)
	}

	return &Connection{
		Client:   client,
		Database: client.Database(config.Database),
	}, nil
}

// Close disconnects the underlying client.
func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
