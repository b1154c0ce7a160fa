package service

import (
	"context"
	"strings"

	"github.com/hamidadj13/syncvote-api/internal/cache"
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/repository"
	"github.com/hamidadj13/syncvote-api/internal/validation"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 20000
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	catalog  *Catalog
	cache    *cache.Cache
}

type CreatePostInput struct {
	UserID      string
	Title       string
	Description string
	Categories  []string
}

type UpdatePostInput struct {
	CallerID   string
	CallerRole models.Role
	PostID     string
	Update     models.PostUpdate
}

type DeletePostInput struct {
	CallerID   string
	CallerRole models.Role
	PostID     string
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	catalog *Catalog,
	c *cache.Cache,
) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, catalog: catalog, cache: c}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validateContent(in.Title, in.Description, in.Categories); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Categories:  in.Categories,
		CreatedBy:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.PostKeys(post.ID, post.CreatedBy, post.Categories)...)
	return post, nil
}

// ListPosts returns every post in listing form.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.cache.Aside(ctx, cache.PostsKey, &posts, func() error {
		stored, err := s.postRepo.List(ctx)
		if err != nil {
			return err
		}
		posts = summarize(stored)
		return nil
	})
	return posts, err
}

// GetPost returns a post with its author's username, or "Unknown" when the
// author no longer exists. The username is looked up on every call so a
// rename shows without waiting for the cached post to expire.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := s.cache.Aside(ctx, cache.PostKey(id), &post, func() error {
		stored, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		post = *stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	post.Username = "Unknown"
	author, err := s.userRepo.GetByID(ctx, post.CreatedBy)
	switch {
	case err == nil:
		post.Username = author.Username
	case !models.IsCode(err, models.CodeNotFound):
		return nil, err
	}
	return &post, nil
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	err := s.cache.Aside(ctx, cache.UserPostsKey(userID), &posts, func() error {
		stored, err := s.postRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		posts = summarize(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundMessage("No posts found for this user.")
	}
	return posts, nil
}

func (s *PostService) ListPostsByCategory(ctx context.Context, category string) ([]models.Post, error) {
	var posts []models.Post
	err := s.cache.Aside(ctx, cache.CategoryPostsKey(category), &posts, func() error {
		stored, err := s.postRepo.ListByCategory(ctx, category)
		if err != nil {
			return err
		}
		posts = summarize(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundMessage("No posts found in this category.")
	}
	return posts, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !isOwnerOrAdmin(post.CreatedBy, in.CallerID, in.CallerRole) {
		return nil, models.NewForbiddenError("You are not authorized to update this post")
	}
	if in.Update.Empty() {
		return nil, models.NewValidationError("No fields to update")
	}

	title, description, categories := post.Title, post.Description, post.Categories
	if in.Update.Title != nil {
		title = strings.TrimSpace(*in.Update.Title)
		in.Update.Title = &title
	}
	if in.Update.Description != nil {
		description = strings.TrimSpace(*in.Update.Description)
		in.Update.Description = &description
	}
	if in.Update.Categories != nil {
		categories = in.Update.Categories
	}
	if err := s.validateContent(title, description, categories); err != nil {
		return nil, err
	}

	updated, err := s.postRepo.Update(ctx, in.PostID, in.Update)
	if err != nil {
		return nil, err
	}

	// Both the old and the new categories hold stale listings.
	touched := append(append([]string{}, post.Categories...), updated.Categories...)
	s.cache.Invalidate(ctx, cache.PostKeys(post.ID, post.CreatedBy, touched)...)
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !isOwnerOrAdmin(post.CreatedBy, in.CallerID, in.CallerRole) {
		return models.NewForbiddenError("You are not authorized to delete this post")
	}
	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.PostKeys(post.ID, post.CreatedBy, post.Categories)...)
	return nil
}

// ListCategories returns the category catalog.
func (s *PostService) ListCategories() []Category {
	return s.catalog.Categories
}

func (s *PostService) validateContent(title, description string, categories []string) error {
	if title == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if description == "" {
		return models.NewValidationError("Description is required")
	}
	if len(description) > maxDescriptionLen {
		return models.NewValidationError("Description too long (max 20000 characters)")
	}
	if err := validation.ValidateCategories(categories, s.catalog.Slugs()); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func summarize(posts []models.Post) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Summary())
	}
	return out
}
