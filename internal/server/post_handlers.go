package server

import (
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Categories  []string `json:"categories"`
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "Post"
// @Success 201 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := caller(c)

	in := service.CreatePostInput{UserID: userID, Categories: req.Categories}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Post created successfully!", post)
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Post}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Posts retrieved successfully!", posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post retrieved successfully!", post)
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary List a user's posts
// @Tags posts
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.Response{data=[]models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListPostsByUser(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Posts retrieved successfully!", posts)
}

// GetCategoryPosts handles GET /api/categories/:category/posts
// @Summary List the posts of a category
// @Tags posts
// @Produce json
// @Param category path string true "Category slug"
// @Success 200 {object} models.Response{data=[]models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{category}/posts [get]
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	category, err := parseID(c, "category")
	if err != nil {
		return nil
	}
	posts, err := s.postService.ListPostsByCategory(c.UserContext(), category)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Posts retrieved successfully!", posts)
}

// GetCategories handles GET /api/categories
// @Summary List categories
// @Tags posts
// @Produce json
// @Success 200 {object} models.Response{data=[]service.Category}
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return models.Respond(c, fiber.StatusOK, "Categories retrieved successfully!", s.postService.ListCategories())
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body postRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req postRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, role := caller(c)

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		CallerID:   userID,
		CallerRole: role,
		PostID:     id,
		Update: models.PostUpdate{
			Title:       req.Title,
			Description: req.Description,
			Categories:  req.Categories,
		},
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post updated successfully!", post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, role := caller(c)

	err = s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		CallerID:   userID,
		CallerRole: role,
		PostID:     id,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Post deleted successfully!", nil)
}
