package handlers

import (
	"context"
	"net/http"
	"time"

	"scribe/database"
	"scribe/middleware"
	"scribe/models"
	"scribe/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const dbTimeout = 10 * time.Second

// store holds the attachment store shared across all handlers.
var store *storage.Store

// SetStore wires the attachment store; called once from main.
func SetStore(s *storage.Store) {
	store = s
}

// fail writes the structured error envelope used across the API.
func fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status":     "error",
		"statusCode": statusCode,
		"message":    message,
	})
}

// callerID extracts the authenticated caller's id. The token was already
// verified by the auth middleware, so a malformed id means a stale token.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	claims := middleware.CurrentUser(c)
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		fail(c, http.StatusForbidden, "Invalid or expired token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// findPost loads a post aggregate by its hex id. found is false both for a
// malformed id and an absent document.
func findPost(ctx context.Context, hexID string) (*models.Post, bool, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, false, nil
	}

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &post, true, nil
}

// savePost persists the whole aggregate; the post document is the unit of
// durability for every embedded comment and reply.
func savePost(ctx context.Context, post *models.Post) error {
	_, err := database.Posts.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	return err
}

// fetchUsers loads the referenced users in one batched query.
func fetchUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	users := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	for i := range found {
		users[found[i].ID] = &found[i]
	}
	return users, nil
}

// postView populates a single post for a response.
func postView(ctx context.Context, post *models.Post, withEmail bool) (*models.PostView, error) {
	users, err := fetchUsers(ctx, post.UserIDs())
	if err != nil {
		return nil, err
	}
	return models.NewPostView(post, users, withEmail), nil
}

// postViews populates a list of posts with a single user lookup across all of
// them.
func postViews(ctx context.Context, posts []models.Post, withEmail bool) ([]*models.PostView, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for i := range posts {
		for _, id := range posts[i].UserIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := fetchUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*models.PostView, len(posts))
	for i := range posts {
		views[i] = models.NewPostView(&posts[i], users, withEmail)
	}
	return views, nil
}
