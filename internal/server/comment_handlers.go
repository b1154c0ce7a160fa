package server

import (
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/posts/:postId/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 201 {object} models.Response{data=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := caller(c)

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Comment added successfully!", comment)
}

// GetComments handles GET /api/posts/:postId/comments
// @Summary List the comments of a post
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} models.Response{data=[]models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comments retrieved successfully!", comments)
}

// GetComment handles GET /api/comments/:id
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} models.Response{data=models.Comment}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [get]
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comment retrieved successfully!", comment)
}

// UpdateComment handles PUT /api/comments/:id
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Param request body commentRequest true "Comment"
// @Success 200 {object} models.Response{data=models.Comment}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, role := caller(c)

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		CallerID:   userID,
		CallerRole: role,
		CommentID:  id,
		Content:    req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comment updated successfully!", comment)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} models.Response
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, role := caller(c)

	if _, err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		CallerID:   userID,
		CallerRole: role,
		CommentID:  id,
	}); err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Comment deleted successfully", nil)
}
