// Package mongodb wraps the MongoDB driver with health checking and the
// collection handles the RA needs.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"selegra/internal/platform/config"
)

// Client wraps the mongo client together with the RA database handle.
type Client struct {
	*mongo.Client
	database *mongo.Database
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg config.Mongo) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return &Client{
		Client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

// Collection returns a handle in the RA database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// MajorityCollection returns a handle whose writes require acknowledgement by
// a majority of replica set members. The proofing log uses this: a proofing
// decision must survive single-node loss.
func (c *Client) MajorityCollection(name string) *mongo.Collection {
	return c.database.Collection(name,
		options.Collection().SetWriteConcern(writeconcern.Majority()))
}

// Health checks if the MongoDB connection is alive.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
