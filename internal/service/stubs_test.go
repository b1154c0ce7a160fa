package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/cache"
	"github.com/hamidadj13/syncvote-api/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, string) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	listFn           func(context.Context) ([]models.User, error)
	updateFn         func(context.Context, string, models.UserUpdate) (*models.User, error)
	updatePasswordFn func(context.Context, string, string) error
	setRoleFn        func(context.Context, string, models.Role) error
	deleteFn         func(context.Context, string) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) { return s.listFn(ctx) }
func (s *userRepoStub) Update(ctx context.Context, id string, u models.UserUpdate) (*models.User, error) {
	return s.updateFn(ctx, id, u)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, id, hash string) error {
	return s.updatePasswordFn(ctx, id, hash)
}
func (s *userRepoStub) SetRoleByEmail(ctx context.Context, email string, role models.Role) error {
	return s.setRoleFn(ctx, email, role)
}
func (s *userRepoStub) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(_ context.Context, u *models.User) error { u.ID = "u-new"; return nil },
		getByIDFn:    func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:       func(_ context.Context) ([]models.User, error) { return nil, nil },
		updateFn: func(_ context.Context, id string, _ models.UserUpdate) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		updatePasswordFn: func(_ context.Context, _, _ string) error { return nil },
		setRoleFn:        func(_ context.Context, _ string, _ models.Role) error { return nil },
		deleteFn:         func(_ context.Context, _ string) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, string) (*models.Post, error)
	listFn           func(context.Context) ([]models.Post, error)
	listByUserFn     func(context.Context, string) ([]models.Post, error)
	listByCategoryFn func(context.Context, string) ([]models.Post, error)
	updateFn         func(context.Context, string, models.PostUpdate) (*models.Post, error)
	deleteFn         func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) { return s.listFn(ctx) }
func (s *postRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	return s.listByCategoryFn(ctx, category)
}
func (s *postRepoStub) Update(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	return s.updateFn(ctx, id, u)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error { p.ID = "p-new"; return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Post, error) {
			return &models.Post{ID: id, CreatedBy: "author", Categories: []string{"general"}}, nil
		},
		listFn:           func(_ context.Context) ([]models.Post, error) { return nil, nil },
		listByUserFn:     func(_ context.Context, _ string) ([]models.Post, error) { return nil, nil },
		listByCategoryFn: func(_ context.Context, _ string) ([]models.Post, error) { return nil, nil },
		updateFn: func(_ context.Context, id string, _ models.PostUpdate) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, string) (*models.Comment, error)
	listByPostFn    func(context.Context, string) ([]models.Comment, error)
	updateContentFn func(context.Context, string, string) (*models.Comment, error)
	deleteFn        func(context.Context, string) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	return s.updateContentFn(ctx, id, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = "c-new"; return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: "p1", CreatedBy: "author"}, nil
		},
		listByPostFn: func(_ context.Context, _ string) ([]models.Comment, error) { return nil, nil },
		updateContentFn: func(_ context.Context, id, content string) (*models.Comment, error) {
			return &models.Comment{ID: id, Content: content}, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	recordFn       func(context.Context, *models.Vote) error
	listByTargetFn func(context.Context, models.TargetType, string) ([]models.Vote, error)
	votedTargetsFn func(context.Context, models.TargetType) ([]string, error)
	repairFn       func(context.Context, models.TargetType, string, time.Time) (models.CounterRepair, error)
}

func (s *voteRepoStub) Record(ctx context.Context, v *models.Vote) error { return s.recordFn(ctx, v) }
func (s *voteRepoStub) ListByTarget(ctx context.Context, t models.TargetType, id string) ([]models.Vote, error) {
	return s.listByTargetFn(ctx, t, id)
}
func (s *voteRepoStub) VotedTargets(ctx context.Context, t models.TargetType) ([]string, error) {
	return s.votedTargetsFn(ctx, t)
}
func (s *voteRepoStub) RepairCounters(ctx context.Context, t models.TargetType, id string, settledBefore time.Time) (models.CounterRepair, error) {
	return s.repairFn(ctx, t, id, settledBefore)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		recordFn: func(_ context.Context, _ *models.Vote) error { return nil },
		listByTargetFn: func(_ context.Context, _ models.TargetType, _ string) ([]models.Vote, error) {
			return []models.Vote{}, nil
		},
		votedTargetsFn: func(_ context.Context, _ models.TargetType) ([]string, error) { return nil, nil },
		repairFn: func(_ context.Context, t models.TargetType, id string, _ time.Time) (models.CounterRepair, error) {
			return models.CounterRepair{Status: models.RepairUnchanged, Tally: models.VoteTally{TargetID: id, TargetType: t}}, nil
		},
	}
}

// newTestCache returns a Redis-backed cache on a private miniredis.
func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(cache.NewRedisStore(client), time.Minute), mr
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	return catalog
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
