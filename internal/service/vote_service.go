package service

import (
	"context"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/cache"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/observability"
	"github.com/hamidadj13/syncvote-api/internal/repository"
)

// VoteService records likes and dislikes on posts and comments and keeps
// their counters, and every cached view of them, consistent.
type VoteService struct {
	voteRepo    repository.VoteRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	cache       *cache.Cache
	now         func() time.Time
	settle      time.Duration
}

type AddVoteInput struct {
	TargetID   string
	TargetType models.TargetType
	UserID     string
	VoteType   models.VoteType
}

// ReconcileResult summarizes one counter reconciliation pass.
type ReconcileResult struct {
	Checked  int
	Repaired int
	// Skipped targets had recent votes, changed mid-check or were ahead of
	// their votes.
	Skipped int
}

// DefaultSettleWindow is how old a target's newest vote must be before
// reconciliation touches its counters.
const DefaultSettleWindow = time.Minute

func NewVoteService(
	voteRepo repository.VoteRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	c *cache.Cache,
) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		cache:       c,
		now:         func() time.Time { return time.Now().UTC() },
		settle:      DefaultSettleWindow,
	}
}

// SetSettleWindow overrides DefaultSettleWindow. Non-positive values are ignored.
func (s *VoteService) SetSettleWindow(d time.Duration) {
	if d > 0 {
		s.settle = d
	}
}

// AddVote stores the caller's vote on a target and increments the matching
// counter. A user votes at most once per target; the first vote wins.
func (s *VoteService) AddVote(ctx context.Context, in AddVoteInput) (*models.Vote, error) {
	if !in.TargetType.Valid() {
		return nil, models.NewValidationError("Invalid target type")
	}
	if !in.VoteType.Valid() {
		return nil, models.NewValidationError("Invalid vote type. Must be 'like' or 'dislike'")
	}
	if in.TargetID == "" || in.UserID == "" {
		return nil, models.NewValidationError("Target and user are required")
	}

	keys, err := s.targetKeys(ctx, in.TargetType, in.TargetID)
	if err != nil {
		s.count(in, err)
		return nil, err
	}

	vote := &models.Vote{
		ID:         models.VoteID(in.TargetID, in.UserID),
		TargetID:   in.TargetID,
		TargetType: in.TargetType,
		UserID:     in.UserID,
		VoteType:   in.VoteType,
		CreatedAt:  s.now(),
	}
	if err := s.voteRepo.Record(ctx, vote); err != nil {
		s.count(in, err)
		return nil, err
	}

	s.cache.Invalidate(ctx, keys...)
	s.count(in, nil)
	return vote, nil
}

// ListVotes returns the votes recorded on a target.
func (s *VoteService) ListVotes(ctx context.Context, targetType models.TargetType, targetID string) ([]models.Vote, error) {
	if !targetType.Valid() {
		return nil, models.NewValidationError("Invalid target type")
	}
	if _, err := s.targetKeys(ctx, targetType, targetID); err != nil {
		return nil, err
	}
	return s.voteRepo.ListByTarget(ctx, targetType, targetID)
}

// ReconcileCounters recounts the votes of every voted target and raises the
// counters that fell behind. Targets with votes younger than the settle
// window, or whose counters move during the check, are left for the next run.
func (s *VoteService) ReconcileCounters(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult
	settledBefore := s.now().Add(-s.settle)
	for _, targetType := range []models.TargetType{models.TargetPost, models.TargetComment} {
		ids, err := s.voteRepo.VotedTargets(ctx, targetType)
		if err != nil {
			return result, err
		}
		for _, id := range ids {
			result.Checked++
			repair, err := s.voteRepo.RepairCounters(ctx, targetType, id, settledBefore)
			if err != nil {
				return result, err
			}
			switch repair.Status {
			case models.RepairSkipped:
				result.Skipped++
				continue
			case models.RepairAhead:
				result.Skipped++
				middleware.Logger.WarnContext(ctx, "vote counters exceed stored votes",
					"target_type", targetType, "target_id", id,
					"votes_like", repair.Tally.TotalLike, "votes_dislike", repair.Tally.TotalDislike)
				continue
			case models.RepairUnchanged:
				continue
			}
			result.Repaired++
			middleware.Logger.WarnContext(ctx, "repaired vote counters",
				"target_type", targetType, "target_id", id,
				"total_like", repair.Tally.TotalLike, "total_dislike", repair.Tally.TotalDislike)
			if keys, err := s.targetKeys(ctx, targetType, id); err == nil {
				s.cache.Invalidate(ctx, keys...)
			}
		}
	}
	return result, nil
}

// targetKeys loads the target and returns the cache keys that render its counters.
func (s *VoteService) targetKeys(ctx context.Context, targetType models.TargetType, targetID string) ([]string, error) {
	if targetType == models.TargetComment {
		comment, err := s.commentRepo.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return cache.CommentKeys(comment.ID, comment.PostID), nil
	}
	post, err := s.postRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return cache.PostKeys(post.ID, post.CreatedBy, post.Categories), nil
}

func (s *VoteService) count(in AddVoteInput, err error) {
	result := "accepted"
	switch {
	case err == nil:
	case models.IsCode(err, models.CodeConflict):
		result = "duplicate"
	case models.IsCode(err, models.CodeNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	observability.VotesTotal.WithLabelValues(string(in.TargetType), string(in.VoteType), result).Inc()
}
