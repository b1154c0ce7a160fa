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

func testPost() *models.Post {
	return &models.Post{ID: "p1", Title: "Hello", CreatedBy: "author", Categories: []string{"general"}}
}

func TestVotePost(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		setup          func(env *testEnv)
		expectedStatus int
		expectedMsg    string
		recorded       bool
	}{
		{
			name: "Success",
			body: map[string]string{"voteType": "like"},
			setup: func(env *testEnv) {
				env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)
				env.votes.On("Record", mock.Anything, mock.AnythingOfType("*models.Vote")).Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Vote added successfully!",
			recorded:       true,
		},
		{
			name: "Already Voted",
			body: map[string]string{"voteType": "dislike"},
			setup: func(env *testEnv) {
				env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)
				env.votes.On("Record", mock.Anything, mock.AnythingOfType("*models.Vote")).
					Return(models.NewConflictError("User has already voted on this item"))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "User has already voted on this item",
			recorded:       true,
		},
		{
			name: "Missing Post",
			body: map[string]string{"voteType": "like"},
			setup: func(env *testEnv) {
				env.posts.On("GetByID", mock.Anything, "p1").Return(nil, models.NewNotFoundMessage("Post not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Post not found",
		},
		{
			name:           "Invalid Vote Type",
			body:           map[string]string{"voteType": "love"},
			setup:          func(*testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid vote type. Must be 'like' or 'dislike'",
		},
		{
			name:           "Missing Vote Type",
			body:           map[string]string{},
			setup:          func(*testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid vote type. Must be 'like' or 'dislike'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			status, body := do(t, env.app, http.MethodPost, "/api/posts/p1/vote", tt.body, env.bearer(t, "u1", models.RoleMember))
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMsg, body.Message)
			if !tt.recorded {
				env.votes.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
			}
			env.posts.AssertExpectations(t)
			env.votes.AssertExpectations(t)
		})
	}
}

func TestVotePost_ResponseCarriesVote(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)
	env.votes.On("Record", mock.Anything, mock.MatchedBy(func(v *models.Vote) bool {
		return v.TargetType == models.TargetPost && v.TargetID == "p1" && v.UserID == "u1"
	})).Return(nil)

	status, body := do(t, env.app, http.MethodPost, "/api/posts/p1/vote",
		map[string]string{"voteType": "dislike"}, env.bearer(t, "u1", models.RoleMember))
	require.Equal(t, http.StatusCreated, status)

	var vote models.Vote
	require.NoError(t, json.Unmarshal(body.Data, &vote))
	assert.Equal(t, models.VoteID("p1", "u1"), vote.ID)
	assert.Equal(t, models.VoteDislike, vote.VoteType)
	assert.Equal(t, "u1", vote.UserID)
}

func TestVoteComment(t *testing.T) {
	env := newTestEnv(t)
	env.comments.On("GetByID", mock.Anything, "c1").
		Return(&models.Comment{ID: "c1", PostID: "p1", CreatedBy: "author"}, nil)
	env.votes.On("Record", mock.Anything, mock.MatchedBy(func(v *models.Vote) bool {
		return v.TargetType == models.TargetComment && v.TargetID == "c1"
	})).Return(nil)

	status, body := do(t, env.app, http.MethodPost, "/api/comments/c1/vote",
		map[string]string{"voteType": "like"}, env.bearer(t, "u1", models.RoleMember))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Vote added successfully!", body.Message)
	env.posts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestVoteComment_MissingComment(t *testing.T) {
	env := newTestEnv(t)
	env.comments.On("GetByID", mock.Anything, "c404").
		Return(nil, models.NewNotFoundMessage("Comment not found"))

	status, body := do(t, env.app, http.MethodPost, "/api/comments/c404/vote",
		map[string]string{"voteType": "like"}, env.bearer(t, "u1", models.RoleMember))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Comment not found", body.Message)
	env.votes.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestGetPostVotes(t *testing.T) {
	env := newTestEnv(t)
	env.posts.On("GetByID", mock.Anything, "p1").Return(testPost(), nil)
	env.votes.On("ListByTarget", mock.Anything, models.TargetPost, "p1").Return([]models.Vote{
		{ID: "v1", TargetID: "p1", TargetType: models.TargetPost, UserID: "u1", VoteType: models.VoteLike},
		{ID: "v2", TargetID: "p1", TargetType: models.TargetPost, UserID: "u2", VoteType: models.VoteDislike},
	}, nil)

	status, body := do(t, env.app, http.MethodGet, "/api/posts/p1/votes", nil, "")
	require.Equal(t, http.StatusOK, status)

	var votes []models.Vote
	require.NoError(t, json.Unmarshal(body.Data, &votes))
	assert.Len(t, votes, 2)
}

func TestGetCommentVotes_MissingComment(t *testing.T) {
	env := newTestEnv(t)
	env.comments.On("GetByID", mock.Anything, "c1").Return(nil, models.NewNotFoundMessage("Comment not found"))

	status, _ := do(t, env.app, http.MethodGet, "/api/comments/c1/votes", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}
