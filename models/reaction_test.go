package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleAddsToTargetSet(t *testing.T) {
	user := primitive.NewObjectID()
	var likes, dislikes []primitive.ObjectID

	Toggle(ReactionLike, &likes, &dislikes, user)

	assert.Equal(t, []primitive.ObjectID{user}, likes)
	assert.Empty(t, dislikes)
}

func TestToggleSwitchesVote(t *testing.T) {
	user := primitive.NewObjectID()
	var likes, dislikes []primitive.ObjectID

	Toggle(ReactionDislike, &likes, &dislikes, user)
	require.Equal(t, []primitive.ObjectID{user}, dislikes)

	Toggle(ReactionLike, &likes, &dislikes, user)

	assert.Equal(t, []primitive.ObjectID{user}, likes)
	assert.Empty(t, dislikes, "a like must cancel a prior dislike")
}

func TestTogglePairIsIdentity(t *testing.T) {
	user := primitive.NewObjectID()
	var likes, dislikes []primitive.ObjectID

	Toggle(ReactionLike, &likes, &dislikes, user)
	Toggle(ReactionLike, &likes, &dislikes, user)

	assert.Empty(t, likes)
	assert.Empty(t, dislikes)
}

func TestToggleKeepsSetsDisjoint(t *testing.T) {
	users := []primitive.ObjectID{
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
	}
	actions := []Reaction{
		ReactionLike, ReactionDislike, ReactionDislike, ReactionLike,
		ReactionLike, ReactionDislike, ReactionLike, ReactionDislike,
	}

	var likes, dislikes []primitive.ObjectID
	for i, action := range actions {
		for _, user := range users[:i%len(users)+1] {
			Toggle(action, &likes, &dislikes, user)

			inLikes := contains(likes, user)
			inDislikes := contains(dislikes, user)
			require.False(t, inLikes && inDislikes,
				"user present in both sets after step %d", i)
		}
	}
}

func TestToggleOnlyAffectsGivenUser(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	likes := []primitive.ObjectID{alice}
	var dislikes []primitive.ObjectID

	Toggle(ReactionDislike, &likes, &dislikes, bob)

	assert.Equal(t, []primitive.ObjectID{alice}, likes)
	assert.Equal(t, []primitive.ObjectID{bob}, dislikes)
}

func TestToggleBookmarkRoundTrip(t *testing.T) {
	user := primitive.NewObjectID()
	var bookmarks []primitive.ObjectID

	assert.True(t, ToggleBookmark(&bookmarks, user))
	assert.Equal(t, []primitive.ObjectID{user}, bookmarks)

	assert.False(t, ToggleBookmark(&bookmarks, user))
	assert.Empty(t, bookmarks)
}

func contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, member := range set {
		if member == id {
			return true
		}
	}
	return false
}
