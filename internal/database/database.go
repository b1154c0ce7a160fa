// Package database manages the MongoDB connection and the collection indexes.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/config"
	"github.com/hamidadj13/syncvote-api/internal/middleware"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names.
const (
	UsersCollection    = "users"
	PostsCollection    = "posts"
	CommentsCollection = "comments"
	VotesCollection    = "votes"
)

// DB bundles the client and the application database.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	// Transactions reports whether multi-document transactions may be used.
	Transactions bool
}

// Connect opens the MongoDB client described by cfg and verifies it with a ping.
func Connect(cfg *config.Config) (*DB, error) {
	timeout := cfg.MongoTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetTimeout(timeout).
		SetAppName("syncvote-api")

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	middleware.Logger.Info("mongo connected", "database", cfg.MongoDatabase, "transactions", cfg.MongoTransactions)
	return &DB{
		Client:       client,
		Database:     client.Database(cfg.MongoDatabase),
		Transactions: cfg.MongoTransactions,
	}, nil
}

// Collection returns the named collection of the application database.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}

// Ping checks the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}
