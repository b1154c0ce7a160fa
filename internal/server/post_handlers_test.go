package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/hamidadj13/syncvote-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		setup          func(env *testEnv)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]any{
				"title":       "New Post",
				"description": "Hello world",
				"categories":  []string{"technology"},
			},
			setup: func(env *testEnv) {
				env.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
					return p.CreatedBy == "u1" && p.Title == "New Post"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*models.Post).ID = "p-new"
				}).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Fields",
			body:           map[string]any{"title": ""},
			setup:          func(*testEnv) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown Category",
			body: map[string]any{
				"title":       "New Post",
				"description": "Hello world",
				"categories":  []string{"astrology"},
			},
			setup:          func(*testEnv) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			status, _ := do(t, env.app, http.MethodPost, "/api/posts", tt.body, env.bearer(t, "u1", models.RoleMember))
			assert.Equal(t, tt.expectedStatus, status)
			env.posts.AssertExpectations(t)
		})
	}
}

func TestGetPost_UnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil).Once()
	env.users.On("GetByID", mock.Anything, "author").Return(nil, models.NewNotFoundMessage("User not found"))

	status, body := do(t, env.app, http.MethodGet, "/api/posts/p1", nil, "")
	require.Equal(t, http.StatusOK, status)

	var post models.Post
	require.NoError(t, json.Unmarshal(body.Data, &post))
	assert.Equal(t, "Unknown", post.Username)

	// The post is served from cache the second time; the author is not.
	status, _ = do(t, env.app, http.MethodGet, "/api/posts/p1", nil, "")
	assert.Equal(t, http.StatusOK, status)
	env.posts.AssertNumberOfCalls(t, "GetByID", 1)
	env.users.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestGetCategoryPosts_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("ListByCategory", mock.Anything, "science").Return([]models.Post{}, nil)

	status, body := do(t, env.app, http.MethodGet, "/api/categories/science/posts", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No posts found in this category.", body.Message)
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)

	status, body := do(t, env.app, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, status)

	var categories []struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &categories))
	assert.NotEmpty(t, categories)
}

func TestUpdatePost_Ownership(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)

	status, _ := do(t, env.app, http.MethodPut, "/api/posts/p1",
		map[string]any{"title": "Hijacked"}, env.bearer(t, "intruder", models.RoleMember))
	assert.Equal(t, http.StatusForbidden, status)
	env.posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePost_Admin(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)
	updated := testPost()
	updated.Title = "Edited"
	env.posts.On("Update", mock.Anything, "p1", mock.Anything).Return(updated, nil)

	status, body := do(t, env.app, http.MethodPut, "/api/posts/p1",
		map[string]any{"title": "Edited"}, env.bearer(t, "admin", models.RoleAdmin))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post updated successfully!", body.Message)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)
	env.posts.On("Delete", mock.Anything, "p1").Return(nil)

	status, body := do(t, env.app, http.MethodDelete, "/api/posts/p1", nil, env.bearer(t, "author", models.RoleMember))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted successfully!", body.Message)
	env.posts.AssertExpectations(t)
}
