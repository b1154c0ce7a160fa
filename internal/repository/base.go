// Package repository implements the MongoDB data access layer.
package repository

import (
	"context"
	"errors"

	"github.com/hamidadj13/syncvote-api/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const duplicateKeyCode = 11000

// NewID returns a fresh document identifier.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// isDuplicateKey reports whether err is a unique index violation.
func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == duplicateKeyCode {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}

// track starts a span and a latency measurement for one store call. The
// returned function must be called when the call completes.
func track(ctx context.Context, operation, collection string) (context.Context, func()) {
	ctx, span := observability.StartStoreSpan(ctx, operation, collection)
	observe := observability.TrackStore(operation, collection)
	return ctx, func() {
		observe()
		span.End()
	}
}

// findAll runs filter against coll and decodes every match into T.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
