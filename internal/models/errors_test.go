package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), fiber.StatusForbidden},
		{"not found", NewNotFoundError("Post", "abc"), fiber.StatusNotFound},
		{"conflict", NewConflictError("dup"), fiber.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("service: %w", NewConflictError("dup")), fiber.StatusConflict},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("wrapped: %w", NewNotFoundMessage("Post not found"))
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeConflict))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}

func TestRespondWithError_InternalIsOpaque(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError,
			NewInternalError(errors.New("connection refused: mongo-0.internal:27017")))
	})
	app.Get("/raw", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("secret stack trace"))
	})

	for _, path := range []string{"/boom", "/raw"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "mongo-0")
		assert.NotContains(t, string(body), "secret")

		var envelope ErrorResponse
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, fiber.StatusInternalServerError, envelope.Status)
		assert.Equal(t, "Internal Server Error", envelope.Message)
		assert.Equal(t, CodeInternal, envelope.Code)
	}
}

func TestRespondWithError_ClientErrorKeepsMessage(t *testing.T) {
	t.Parallel()
	app := fiber.New()
	app.Get("/dup", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusConflict, NewConflictError("User has already voted on this item"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/dup", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var envelope ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, fiber.StatusConflict, envelope.Status)
	assert.Equal(t, "User has already voted on this item", envelope.Message)
	assert.Equal(t, CodeConflict, envelope.Code)
}

func TestUserSummary_StripsPrivateFields(t *testing.T) {
	t.Parallel()
	u := User{ID: "u1", Username: "alice", Email: "a@example.com", Password: "hash", Role: RoleMember}
	body, err := json.Marshal(u.Summary())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "hash")
	assert.NotContains(t, string(body), "createdAt")
	assert.Contains(t, string(body), `"username":"alice"`)
}
