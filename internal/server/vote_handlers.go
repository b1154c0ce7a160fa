package server

import (
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type voteRequest struct {
	VoteType models.VoteType `json:"voteType"`
}

// VotePost handles POST /api/posts/:postId/vote
// @Summary Like or dislike a post
// @Description A user votes at most once per post. A second vote is rejected with 409.
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body voteRequest true "Vote"
// @Success 201 {object} models.Response{data=models.Vote}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /posts/{postId}/vote [post]
func (s *Server) VotePost(c *fiber.Ctx) error {
	return s.vote(c, models.TargetPost, "postId")
}

// VoteComment handles POST /api/comments/:commentId/vote
// @Summary Like or dislike a comment
// @Description A user votes at most once per comment. A second vote is rejected with 409.
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Param request body voteRequest true "Vote"
// @Success 201 {object} models.Response{data=models.Vote}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /comments/{commentId}/vote [post]
func (s *Server) VoteComment(c *fiber.Ctx) error {
	return s.vote(c, models.TargetComment, "commentId")
}

func (s *Server) vote(c *fiber.Ctx, targetType models.TargetType, param string) error {
	targetID, err := parseID(c, param)
	if err != nil {
		return nil
	}
	var req voteRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if !req.VoteType.Valid() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid vote type. Must be 'like' or 'dislike'"))
	}
	userID, _ := caller(c)

	vote, err := s.voteService.AddVote(c.UserContext(), service.AddVoteInput{
		TargetID:   targetID,
		TargetType: targetType,
		UserID:     userID,
		VoteType:   req.VoteType,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Vote added successfully!", vote)
}

// GetPostVotes handles GET /api/posts/:postId/votes
// @Summary List the votes on a post
// @Tags votes
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} models.Response{data=[]models.Vote}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/votes [get]
func (s *Server) GetPostVotes(c *fiber.Ctx) error {
	return s.listVotes(c, models.TargetPost, "postId")
}

// GetCommentVotes handles GET /api/comments/:commentId/votes
// @Summary List the votes on a comment
// @Tags votes
// @Produce json
// @Param commentId path string true "Comment ID"
// @Success 200 {object} models.Response{data=[]models.Vote}
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId}/votes [get]
func (s *Server) GetCommentVotes(c *fiber.Ctx) error {
	return s.listVotes(c, models.TargetComment, "commentId")
}

func (s *Server) listVotes(c *fiber.Ctx, targetType models.TargetType, param string) error {
	targetID, err := parseID(c, param)
	if err != nil {
		return nil
	}
	votes, err := s.voteService.ListVotes(c.UserContext(), targetType, targetID)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Votes retrieved successfully!", votes)
}
