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

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetRoleByEmail(ctx context.Context, email string, role models.Role) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	users *mongo.Collection
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{users: db.Collection(database.UsersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, done := track(ctx, "insert", database.UsersCollection)
	defer done()

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = NewID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("User already exists !")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, done := track(ctx, "find_one", database.UsersCollection)
	defer done()

	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundMessage("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, done := track(ctx, "find_one", database.UsersCollection)
	defer done()

	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, done := track(ctx, "find", database.UsersCollection)
	defer done()

	users, err := findAll[models.User](ctx, r.users, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	ctx, done := track(ctx, "find_one_and_update", database.UsersCollection)
	defer done()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}

	var user models.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundMessage("User not found")
		}
		if isDuplicateKey(err) {
			return nil, models.NewConflictError("Email already in use")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctx, done := track(ctx, "update_one", database.UsersCollection)
	defer done()

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":   passwordHash,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundMessage("User not found")
	}
	return nil
}

func (r *userRepository) SetRoleByEmail(ctx context.Context, email string, role models.Role) error {
	ctx, done := track(ctx, "update_one", database.UsersCollection)
	defer done()

	res, err := r.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundMessage("User not found")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	ctx, done := track(ctx, "delete_one", database.UsersCollection)
	defer done()

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundMessage("User not found")
	}
	return nil
}
