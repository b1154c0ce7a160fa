package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteID(t *testing.T) {
	t.Parallel()
	a := VoteID("post-1", "user-1")
	assert.Equal(t, a, VoteID("post-1", "user-1"))
	assert.NotEqual(t, a, VoteID("post-1", "user-2"))
	assert.NotEqual(t, a, VoteID("post-2", "user-1"))
	assert.Len(t, a, 36)
}

func TestVoteTypes(t *testing.T) {
	t.Parallel()
	assert.True(t, TargetPost.Valid())
	assert.False(t, TargetType("user").Valid())
	assert.False(t, VoteType("love").Valid())
	assert.Equal(t, "totalLike", VoteLike.CounterField())
	assert.Equal(t, "totalDislike", VoteDislike.CounterField())
}
