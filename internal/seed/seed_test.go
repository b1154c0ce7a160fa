package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/service"
	"github.com/hamidadj13/syncvote-api/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	users    []service.CreateUserInput
	posts    []service.CreatePostInput
	comments []service.CreateCommentInput
	votes    map[string]bool
	conflict bool
}

func (r *recorder) CreateUser(_ context.Context, in service.CreateUserInput) (*models.User, error) {
	r.users = append(r.users, in)
	return &models.User{ID: fmt.Sprintf("u%d", len(r.users)), Username: in.Username, Email: in.Email}, nil
}

func (r *recorder) CreatePost(_ context.Context, in service.CreatePostInput) (*models.Post, error) {
	r.posts = append(r.posts, in)
	return &models.Post{ID: fmt.Sprintf("p%d", len(r.posts)), CreatedBy: in.UserID}, nil
}

func (r *recorder) CreateComment(_ context.Context, in service.CreateCommentInput) (*models.Comment, error) {
	r.comments = append(r.comments, in)
	return &models.Comment{ID: fmt.Sprintf("c%d", len(r.comments)), PostID: in.PostID}, nil
}

func (r *recorder) AddVote(_ context.Context, in service.AddVoteInput) (*models.Vote, error) {
	if r.conflict {
		return nil, models.NewConflictError("User has already voted on this item")
	}
	key := in.TargetID + "/" + in.UserID
	if r.votes[key] {
		return nil, fmt.Errorf("vote %s cast twice", key)
	}
	r.votes[key] = true
	return &models.Vote{ID: models.VoteID(in.TargetID, in.UserID)}, nil
}

func newSeeder(r *recorder) *Seeder {
	return &Seeder{
		Users:      r,
		Posts:      r,
		Comments:   r,
		Votes:      r,
		Categories: []string{"general", "technology", "science"},
	}
}

func TestRun_Counts(t *testing.T) {
	r := &recorder{votes: map[string]bool{}}
	opts := Options{Users: 4, PostsPerUser: 2, CommentsPerPost: 3, VoteChance: 1, Seed: 42}

	sum, err := newSeeder(r).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 8, sum.Posts)
	assert.Equal(t, 24, sum.Comments)
	// Every user votes once on every post and comment.
	assert.Equal(t, 4*(8+24), sum.Votes)
}

func TestRun_GeneratesValidInput(t *testing.T) {
	r := &recorder{votes: map[string]bool{}}
	_, err := newSeeder(r).Run(context.Background(), Options{Users: 25, PostsPerUser: 1, Seed: 7})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, u := range r.users {
		assert.NoError(t, validation.ValidateUsername(u.Username), u.Username)
		assert.NoError(t, validation.ValidateEmail(u.Email), u.Email)
		assert.Equal(t, DefaultPassword, u.Password)
		assert.False(t, seen[u.Email], "duplicate email %s", u.Email)
		seen[u.Email] = true
	}
	for _, p := range r.posts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Description)
		assert.NoError(t, validation.ValidateCategories(p.Categories, []string{"general", "technology", "science"}))
	}
}

func TestRun_ZeroVoteChance(t *testing.T) {
	r := &recorder{votes: map[string]bool{}}
	sum, err := newSeeder(r).Run(context.Background(), Options{Users: 3, PostsPerUser: 2, CommentsPerPost: 1})
	require.NoError(t, err)
	assert.Zero(t, sum.Votes)
}

func TestRun_ConflictsAreSkipped(t *testing.T) {
	r := &recorder{votes: map[string]bool{}, conflict: true}
	sum, err := newSeeder(r).Run(context.Background(), Options{Users: 2, PostsPerUser: 1, VoteChance: 1})
	require.NoError(t, err)
	assert.Zero(t, sum.Votes)
}

func TestRun_RequiresCategories(t *testing.T) {
	s := newSeeder(&recorder{votes: map[string]bool{}})
	s.Categories = nil
	_, err := s.Run(context.Background(), DefaultOptions())
	assert.Error(t, err)
}
