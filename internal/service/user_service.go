package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hamidadj13/syncvote-api/internal/cache"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/repository"
	"github.com/hamidadj13/syncvote-api/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	tokens   *middleware.TokenManager
	cache    *cache.Cache
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type UpdateUserInput struct {
	CallerID   string
	CallerRole models.Role
	TargetID   string
	Update     models.UserUpdate
}

type ChangePasswordInput struct {
	UserID      string
	OldPassword string
	NewPassword string
}

func NewUserService(userRepo repository.UserRepository, tokens *middleware.TokenManager, c *cache.Cache) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, cache: c}
}

// CreateUser registers a member account.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists !")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Role:     models.RoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.UsersKey)
	created := *user
	created.Password = ""
	return &created, nil
}

// ListUsers returns every user in listing form.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.cache.Aside(ctx, cache.UsersKey, &users, func() error {
		stored, err := s.userRepo.List(ctx)
		if err != nil {
			return err
		}
		users = make([]models.User, 0, len(stored))
		for _, u := range stored {
			users = append(users, u.Summary())
		}
		return nil
	})
	return users, err
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// Login checks the credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Password = ""
	return &LoginResult{User: *user, Token: token}, nil
}

// UpdateUser edits a profile. Members may only edit themselves and never
// their role.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	if !isOwnerOrAdmin(in.TargetID, in.CallerID, in.CallerRole) {
		return nil, models.NewForbiddenError("You are not authorized to update this user")
	}
	if in.Update.Empty() {
		return nil, models.NewValidationError("No fields to update")
	}
	if in.Update.Role != nil {
		if in.CallerRole != models.RoleAdmin {
			return nil, models.NewForbiddenError("Only an admin can change a user's role")
		}
		if !in.Update.Role.Valid() {
			return nil, models.NewValidationError("Role must be 'member' or 'admin'")
		}
	}
	if in.Update.Username != nil {
		if err := validation.ValidateUsername(*in.Update.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Update.Email))
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		in.Update.Email = &email
	}

	user, err := s.userRepo.Update(ctx, in.TargetID, in.Update)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.UsersKey)
	user.Password = ""
	return user, nil
}

// DeleteUser removes an account. Only admins may delete users.
func (s *UserService) DeleteUser(ctx context.Context, callerRole models.Role, id string) error {
	if callerRole != models.RoleAdmin {
		return models.NewUnauthorizedError("Please login with an admin account to make this action !!")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.UsersKey)
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" {
		return models.NewValidationError("Old and new passwords are required")
	}
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.NewValidationError("The old password is incorrect")
		}
		return models.NewInternalError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePassword(ctx, in.UserID, string(hash))
}

// Promote grants the admin role to the account registered under email.
func (s *UserService) Promote(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := s.userRepo.SetRoleByEmail(ctx, email, models.RoleAdmin); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.UsersKey)
	return nil
}
