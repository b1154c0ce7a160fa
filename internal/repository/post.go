package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/database"
	"github.com/hamidadj13/syncvote-api/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	ListByCategory(ctx context.Context, category string) ([]models.Post, error)
	Update(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	posts *mongo.Collection
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *database.DB) PostRepository {
	return &postRepository{posts: db.Collection(database.PostsCollection)}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, done := track(ctx, "insert", database.PostsCollection)
	defer done()

	now := time.Now().UTC()
	if post.ID == "" {
		post.ID = NewID()
	}
	post.TotalLike = 0
	post.TotalDislike = 0
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, done := track(ctx, "find_one", database.PostsCollection)
	defer done()

	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundMessage("Post not found")
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	ctx, done := track(ctx, "find", database.PostsCollection)
	defer done()

	posts, err := findAll[models.Post](ctx, r.posts, bson.M{}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	ctx, done := track(ctx, "find", database.PostsCollection)
	defer done()

	posts, err := findAll[models.Post](ctx, r.posts, bson.M{"created_by": userID}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list posts by user: %w", err)
	}
	return posts, nil
}

// ListByCategory matches posts whose categories array contains category.
func (r *postRepository) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	ctx, done := track(ctx, "find", database.PostsCollection)
	defer done()

	posts, err := findAll[models.Post](ctx, r.posts, bson.M{"categories": category}, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	ctx, done := track(ctx, "find_one_and_update", database.PostsCollection)
	defer done()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Categories != nil {
		set["categories"] = update.Categories
	}

	var post models.Post
	err := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundMessage("Post not found")
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	ctx, done := track(ctx, "delete_one", database.PostsCollection)
	defer done()

	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundMessage("Post not found")
	}
	return nil
}
