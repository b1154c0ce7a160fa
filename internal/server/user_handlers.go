package server

import (
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateUserRequest struct {
	Email    *string      `json:"email"`
	Username *string      `json:"username"`
	Role     *models.Role `json:"role"`
}

// GetUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.User}
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Users retrieved successfully!", users)
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User retrieved successfully!", user)
}

// UpdateUser handles PUT /api/users/:id (admin only)
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body updateUserRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	return s.updateUser(c, id, models.UserUpdate{Email: req.Email, Username: req.Username, Role: req.Role})
}

// UpdateMe handles PUT /api/user/me
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{email=string,username=string} true "Fields to change"
// @Success 200 {object} models.Response{data=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/me [put]
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := caller(c)
	// The role is never taken from the self-service route.
	return s.updateUser(c, userID, models.UserUpdate{Email: req.Email, Username: req.Username})
}

func (s *Server) updateUser(c *fiber.Ctx, targetID string, update models.UserUpdate) error {
	userID, role := caller(c)
	user, err := s.userService.UpdateUser(c.UserContext(), service.UpdateUserInput{
		CallerID:   userID,
		CallerRole: role,
		TargetID:   targetID,
		Update:     update,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User updated successfully!", user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	_, role := caller(c)
	if err := s.userService.DeleteUser(c.UserContext(), role, id); err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User deleted successfully!", nil)
}

// ChangePassword handles PATCH /api/users/password
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{oldPassword=string,newPassword=string} true "Passwords"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /users/password [patch]
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := caller(c)
	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Password updated successfully!", nil)
}
