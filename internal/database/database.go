package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB wraps the mongo client and the application database handle. It is
// constructed once at bootstrap and injected into the stores; there is no
// lazily-created package-level connection.
type DB struct {
	client   *mongo.Client
	Database *mongo.Database
}

// Open connects to the document database, verifies the connection with a
// ping, and returns the handle. The caller owns the lifecycle and must call
// Close on shutdown.
func Open(ctx context.Context, uri, name string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &DB{
		client:   client,
		Database: client.Database(name),
	}, nil
}

// Close disconnects the underlying client.
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// Collection is a convenience accessor for a named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}
