package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionIndex is an index definition bound to its collection.
type CollectionIndex struct {
	Collection string
	Model      mongo.IndexModel
}

// Indexes lists every index the application relies on.
func Indexes() []CollectionIndex {
	return []CollectionIndex{
		{UsersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_email"),
		}},
		{VotesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "target_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_vote_target_user"),
		}},
		{VotesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "target_type", Value: 1}, {Key: "target_id", Value: 1}},
			Options: options.Index().SetName("vote_target"),
		}},
		{PostsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("post_author"),
		}},
		{PostsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "categories", Value: 1}},
			Options: options.Index().SetName("post_categories"),
		}},
		{CommentsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("comment_post"),
		}},
	}
}

// EnsureIndexes creates the application indexes. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *DB) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, idx := range Indexes() {
		if _, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, idx.Model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.Collection, err)
		}
	}
	return nil
}
