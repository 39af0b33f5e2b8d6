package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPostViewPopulatesIdentities(t *testing.T) {
	author := &User{
		ID:             primitive.NewObjectID(),
		Username:       "alice",
		Email:          "a@x.com",
		ProfilePicture: "uploads/profile-pictures/alice.png",
	}
	voter := &User{
		ID:       primitive.NewObjectID(),
		Username: "bob",
		Email:    "b@x.com",
	}

	post := &Post{
		ID:      primitive.NewObjectID(),
		Title:   "T",
		Content: "C",
		Author:  author.ID,
		Likes:   []primitive.ObjectID{voter.ID},
		Comments: []Comment{
			{
				ID:     primitive.NewObjectID(),
				Text:   "nice",
				Author: voter.ID,
				Replies: []Reply{
					{ID: primitive.NewObjectID(), Text: "thanks", Author: author.ID},
				},
			},
		},
	}
	users := map[primitive.ObjectID]*User{author.ID: author, voter.ID: voter}

	view := NewPostView(post, users, true)

	require.NotNil(t, view.Author)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, "a@x.com", view.Author.Email)

	require.Len(t, view.Likes, 1)
	assert.Equal(t, "bob", view.Likes[0].Username)

	require.Len(t, view.Comments, 1)
	assert.Equal(t, "bob", view.Comments[0].Author.Username)
	require.Len(t, view.Comments[0].Replies, 1)
	assert.Equal(t, "alice", view.Comments[0].Replies[0].Author.Username)
}

func TestNewPostViewWithoutEmail(t *testing.T) {
	author := &User{ID: primitive.NewObjectID(), Username: "alice", Email: "a@x.com"}
	post := &Post{ID: primitive.NewObjectID(), Author: author.ID}

	view := NewPostView(post, map[primitive.ObjectID]*User{author.ID: author}, false)

	assert.Equal(t, "alice", view.Author.Username)
	assert.Empty(t, view.Author.Email)
}

func TestNewPostViewMissingUserDegradesToBareID(t *testing.T) {
	ghost := primitive.NewObjectID()
	post := &Post{ID: primitive.NewObjectID(), Author: ghost}

	view := NewPostView(post, map[primitive.ObjectID]*User{}, true)

	require.NotNil(t, view.Author)
	assert.Equal(t, ghost, view.Author.ID)
	assert.Empty(t, view.Author.Username)
}
