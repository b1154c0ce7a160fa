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

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	comments *mongo.Collection
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{comments: db.Collection(database.CommentsCollection)}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, done := track(ctx, "insert", database.CommentsCollection)
	defer done()

	now := time.Now().UTC()
	if comment.ID == "" {
		comment.ID = NewID()
	}
	comment.TotalLike = 0
	comment.TotalDislike = 0
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	ctx, done := track(ctx, "find_one", database.CommentsCollection)
	defer done()

	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundMessage("Comment not found")
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	ctx, done := track(ctx, "find", database.CommentsCollection)
	defer done()

	comments, err := findAll[models.Comment](ctx, r.comments, bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	ctx, done := track(ctx, "find_one_and_update", database.CommentsCollection)
	defer done()

	var comment models.Comment
	err := r.comments.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundMessage("Comment not found")
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	ctx, done := track(ctx, "delete_one", database.CommentsCollection)
	defer done()

	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundMessage("Comment not found")
	}
	return nil
}
