package repository

import (
	"context"
	"testing"

	"github.com/hamidadj13/syncvote-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := requireDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := NewID() + "@example.com"
	user := &models.User{Username: "alice", Email: email, Password: "hash", Role: models.RoleMember}

	t.Run("Create", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "other", Email: email, Password: "x", Role: models.RoleMember})
		require.Error(t, err)
		assert.True(t, models.IsCode(err, models.CodeConflict))
	})

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		none, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("Update", func(t *testing.T) {
		name := "alice2"
		got, err := repo.Update(ctx, user.ID, models.UserUpdate{Username: &name})
		require.NoError(t, err)
		assert.Equal(t, "alice2", got.Username)
		assert.Equal(t, email, got.Email)
	})

	t.Run("PasswordAndRole", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "newhash"))
		require.NoError(t, repo.SetRoleByEmail(ctx, email, models.RoleAdmin))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "newhash", got.Password)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, user.ID))
		_, err := repo.GetByID(ctx, user.ID)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
		assert.True(t, models.IsCode(repo.Delete(ctx, user.ID), models.CodeNotFound))
	})
}
