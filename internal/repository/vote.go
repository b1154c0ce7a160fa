package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/database"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// VoteRepository records votes and keeps the target counters in step with them.
type VoteRepository interface {
	// Record stores vote and increments the matching counter on its target.
	// A second vote by the same user on the same target yields a Conflict.
	Record(ctx context.Context, vote *models.Vote) error
	ListByTarget(ctx context.Context, targetType models.TargetType, targetID string) ([]models.Vote, error)
	// VotedTargets lists the ids of targetType targets holding at least one vote.
	VotedTargets(ctx context.Context, targetType models.TargetType) ([]string, error)
	// RepairCounters recounts the votes of one target and raises its counters
	// if they fell behind. The write only lands if the counters still hold the
	// values read before the recount, and a target with votes created at or
	// after settledBefore is skipped.
	RepairCounters(ctx context.Context, targetType models.TargetType, targetID string, settledBefore time.Time) (models.CounterRepair, error)
}

type voteRepository struct {
	db    *database.DB
	votes *mongo.Collection
	// beforeRepairWrite runs between the recount and the counter write. Tests
	// use it to land a vote inside that window.
	beforeRepairWrite func()
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *database.DB) VoteRepository {
	return &voteRepository{db: db, votes: db.Collection(database.VotesCollection)}
}

func targetCollection(t models.TargetType) string {
	if t == models.TargetComment {
		return database.CommentsCollection
	}
	return database.PostsCollection
}

func (r *voteRepository) Record(ctx context.Context, vote *models.Vote) error {
	if vote.ID == "" {
		vote.ID = models.VoteID(vote.TargetID, vote.UserID)
	}

	if r.db.Transactions {
		sess, err := r.db.Client.StartSession()
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		defer sess.EndSession(context.WithoutCancel(ctx))

		_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
			if err := r.insert(ctx, vote); err != nil {
				return nil, err
			}
			return nil, r.increment(ctx, vote)
		})
		return err
	}

	if err := r.insert(ctx, vote); err != nil {
		return err
	}
	if err := r.increment(ctx, vote); err != nil {
		// Without a transaction the vote must not outlive a failed increment.
		if _, delErr := r.votes.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": vote.ID}); delErr != nil {
			middleware.Logger.Error("failed to roll back vote",
				"vote_id", vote.ID, "target_id", vote.TargetID, "error", delErr)
		}
		return err
	}
	return nil
}

func (r *voteRepository) insert(ctx context.Context, vote *models.Vote) error {
	ctx, done := track(ctx, "insert", database.VotesCollection)
	defer done()

	if _, err := r.votes.InsertOne(ctx, vote); err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("User has already voted on this item")
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *voteRepository) increment(ctx context.Context, vote *models.Vote) error {
	coll := targetCollection(vote.TargetType)
	ctx, done := track(ctx, "inc", coll)
	defer done()

	res, err := r.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": vote.TargetID}, bson.M{
		"$inc": bson.M{vote.VoteType.CounterField(): 1},
		"$set": bson.M{"updated_at": vote.CreatedAt},
	})
	if err != nil {
		return fmt.Errorf("increment %s: %w", vote.VoteType.CounterField(), err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError(string(vote.TargetType), vote.TargetID)
	}
	return nil
}

func (r *voteRepository) ListByTarget(ctx context.Context, targetType models.TargetType, targetID string) ([]models.Vote, error) {
	ctx, done := track(ctx, "find", database.VotesCollection)
	defer done()

	votes, err := findAll[models.Vote](ctx, r.votes,
		bson.M{"target_type": targetType, "target_id": targetID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

type targetRow struct {
	TargetID string `bson:"_id"`
}

func (r *voteRepository) VotedTargets(ctx context.Context, targetType models.TargetType) ([]string, error) {
	ctx, done := track(ctx, "aggregate", database.VotesCollection)
	defer done()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"target_type": targetType}}},
		{{Key: "$group", Value: bson.M{"_id": "$target_id"}}},
	}
	cur, err := r.votes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate voted targets: %w", err)
	}
	var rows []targetRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode voted targets: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TargetID)
	}
	return ids, nil
}

func (r *voteRepository) RepairCounters(ctx context.Context, targetType models.TargetType, targetID string, settledBefore time.Time) (models.CounterRepair, error) {
	if !r.db.Transactions {
		return r.repair(ctx, targetType, targetID, settledBefore)
	}

	sess, err := r.db.Client.StartSession()
	if err != nil {
		return models.CounterRepair{}, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	res, err := sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return r.repair(ctx, targetType, targetID, settledBefore)
	})
	if err != nil {
		return models.CounterRepair{}, err
	}
	return res.(models.CounterRepair), nil
}

type counterState struct {
	TotalLike    int64 `bson:"totalLike"`
	TotalDislike int64 `bson:"totalDislike"`
}

type recountRow struct {
	Likes    int64     `bson:"likes"`
	Dislikes int64     `bson:"dislikes"`
	Newest   time.Time `bson:"newest"`
}

// repair reads the counters first and recounts second. Any vote that lands
// after the read moves the counters, so the conditional write below misses.
// A vote inserted before the read but not yet incremented is younger than
// settledBefore and makes the whole target wait for a later run.
func (r *voteRepository) repair(ctx context.Context, targetType models.TargetType, targetID string, settledBefore time.Time) (models.CounterRepair, error) {
	out := models.CounterRepair{
		Status: models.RepairSkipped,
		Tally:  models.VoteTally{TargetID: targetID, TargetType: targetType},
	}
	coll := targetCollection(targetType)
	target := r.db.Collection(coll)

	var stored counterState
	err := func() error {
		ctx, done := track(ctx, "find_one", coll)
		defer done()
		return target.FindOne(ctx, bson.M{"_id": targetID},
			options.FindOne().SetProjection(bson.M{"totalLike": 1, "totalDislike": 1})).Decode(&stored)
	}()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read counters: %w", err)
	}

	row, err := r.recount(ctx, targetType, targetID)
	if err != nil {
		return out, err
	}
	if !row.Newest.IsZero() && !row.Newest.Before(settledBefore) {
		return out, nil
	}
	out.Tally.TotalLike = row.Likes
	out.Tally.TotalDislike = row.Dislikes
	switch {
	case stored.TotalLike == row.Likes && stored.TotalDislike == row.Dislikes:
		out.Status = models.RepairUnchanged
		return out, nil
	case stored.TotalLike > row.Likes || stored.TotalDislike > row.Dislikes:
		out.Status = models.RepairAhead
		return out, nil
	}

	if r.beforeRepairWrite != nil {
		r.beforeRepairWrite()
	}

	ctx, done := track(ctx, "update_one", coll)
	defer done()
	res, err := target.UpdateOne(ctx,
		bson.M{"_id": targetID, "totalLike": stored.TotalLike, "totalDislike": stored.TotalDislike},
		bson.M{"$set": bson.M{"totalLike": row.Likes, "totalDislike": row.Dislikes}})
	if err != nil {
		return out, fmt.Errorf("repair counters: %w", err)
	}
	if res.ModifiedCount > 0 {
		out.Status = models.RepairApplied
	}
	return out, nil
}

func (r *voteRepository) recount(ctx context.Context, targetType models.TargetType, targetID string) (recountRow, error) {
	ctx, done := track(ctx, "aggregate", database.VotesCollection)
	defer done()

	countOf := func(v models.VoteType) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$vote_type", v}}, 1, 0}}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"target_type": targetType, "target_id": targetID}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"likes":    countOf(models.VoteLike),
			"dislikes": countOf(models.VoteDislike),
			"newest":   bson.M{"$max": "$created_at"},
		}}},
	}

	var row recountRow
	cur, err := r.votes.Aggregate(ctx, pipeline)
	if err != nil {
		return row, fmt.Errorf("recount votes: %w", err)
	}
	var rows []recountRow
	if err := cur.All(ctx, &rows); err != nil {
		return row, fmt.Errorf("decode vote recount: %w", err)
	}
	if len(rows) > 0 {
		row = rows[0]
	}
	return row, nil
}
