package service

import (
	"context"
	"strings"

	"github.com/hamidadj13/syncvote-api/internal/cache"
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cache       *cache.Cache
}

type CreateCommentInput struct {
	UserID  string
	PostID  string
	Content string
}

type UpdateCommentInput struct {
	CallerID   string
	CallerRole models.Role
	CommentID  string
	Content    string
}

type DeleteCommentInput struct {
	CallerID   string
	CallerRole models.Role
	CommentID  string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	c *cache.Cache,
) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, cache: c}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	content, err := checkContent(in.Content)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   content,
		PostID:    in.PostID,
		CreatedBy: in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CommentsKey(in.PostID))
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.cache.Aside(ctx, cache.CommentsKey(postID), &comments, func() error {
		if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
			return err
		}
		stored, err := s.commentRepo.ListByPost(ctx, postID)
		comments = stored
		return err
	})
	return comments, err
}

func (s *CommentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := s.cache.Aside(ctx, cache.CommentKey(id), &comment, func() error {
		stored, err := s.commentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		comment = *stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !isOwnerOrAdmin(comment.CreatedBy, in.CallerID, in.CallerRole) {
		return nil, models.NewForbiddenError("You are not authorized to update this comment")
	}
	content, err := checkContent(in.Content)
	if err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.UpdateContent(ctx, in.CommentID, content)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CommentKeys(comment.ID, comment.PostID)...)
	return updated, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !isOwnerOrAdmin(comment.CreatedBy, in.CallerID, in.CallerRole) {
		return nil, models.NewForbiddenError("You are not authorized to delete this comment")
	}
	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CommentKeys(comment.ID, comment.PostID)...)
	return comment, nil
}

func checkContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return content, nil
}
