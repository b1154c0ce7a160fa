package models

import (
	"time"

	"github.com/google/uuid"
)

// TargetType names the kind of document a vote is cast on.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
)

// Valid reports whether v is a known vote type.
func (v VoteType) Valid() bool {
	return v == VoteLike || v == VoteDislike
}

// CounterField returns the counter on the target that this vote increments.
func (v VoteType) CounterField() string {
	if v == VoteDislike {
		return "totalDislike"
	}
	return "totalLike"
}

// Vote is a single user's like or dislike on a post or comment. A user holds
// at most one vote per target and votes are never modified.
type Vote struct {
	ID         string     `bson:"_id" json:"id"`
	TargetID   string     `bson:"target_id" json:"targetId"`
	TargetType TargetType `bson:"target_type" json:"targetType"`
	UserID     string     `bson:"user_id" json:"userId"`
	VoteType   VoteType   `bson:"vote_type" json:"voteType"`
	CreatedAt  time.Time  `bson:"created_at" json:"createdAt"`
}

// VoteTally is the recomputed counter state of one target.
type VoteTally struct {
	TargetID     string
	TargetType   TargetType
	TotalLike    int64
	TotalDislike int64
}

// RepairStatus is the outcome of reconciling one target's counters.
type RepairStatus string

const (
	// RepairUnchanged means the counters already matched the votes.
	RepairUnchanged RepairStatus = "unchanged"
	// RepairApplied means drifted counters were overwritten.
	RepairApplied RepairStatus = "repaired"
	// RepairSkipped means the target had unsettled votes, moved while it was
	// being recounted or no longer exists. A later run retries it.
	RepairSkipped RepairStatus = "skipped"
	// RepairAhead means a counter exceeds its votes. Counters never
	// decrease, so it is reported and left alone.
	RepairAhead RepairStatus = "ahead"
)

// CounterRepair reports what reconciliation did to one target.
type CounterRepair struct {
	Status RepairStatus
	Tally  VoteTally
}

// voteNamespace seeds the deterministic vote identifiers.
var voteNamespace = uuid.MustParse("6f1c2a7e-3d4b-5e8f-9a0b-1c2d3e4f5a6b")

// VoteID derives the identifier of userID's vote on targetID. The same pair
// always yields the same id, so a second insert collides on _id as well as on
// the (target_id, user_id) index.
func VoteID(targetID, userID string) string {
	return uuid.NewSHA1(voteNamespace, []byte(targetID+"/"+userID)).String()
}
