package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"scribe/database"
	"scribe/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// stageBlogFiles saves uploaded files and maps each declared content type to
// an attachment kind. An unknown type fails validation and un-stages
// everything saved so far.
func stageBlogFiles(files []*multipart.FileHeader) ([]models.Attachment, error) {
	locators, err := store.SaveBlogFiles(files)
	if err != nil {
		return nil, err
	}

	attachments := make([]models.Attachment, len(files))
	for i, fh := range files {
		kind, err := models.KindForContentType(fh.Header.Get("Content-Type"))
		if err != nil {
			store.DeleteAll(locators)
			return nil, err
		}
		attachments[i] = models.Attachment{URL: locators[i], Type: kind}
	}
	return attachments, nil
}

func blogFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File["blogFiles"]
}

func CreatePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")

	attachments, err := stageBlogFiles(blogFiles(c))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if title == "" || content == "" {
		for _, f := range attachments {
			store.Delete(f.URL)
		}
		fail(c, http.StatusBadRequest, "Enter all the fields")
		return
	}

	now := time.Now()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		Author:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Files:     attachments,
		Likes:     []primitive.ObjectID{},
		Dislikes:  []primitive.ObjectID{},
		Bookmarks: []primitive.ObjectID{},
		Comments:  []models.Comment{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		for _, f := range post.Files {
			store.Delete(f.URL)
		}
		c.Error(err)
		return
	}

	view, err := postView(ctx, &post, false)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// UpdatePost applies a partial update: empty title/content keep their stored
// values, filesToDelete names attachment locators to drop, and any uploaded
// files are validated and appended.
func UpdatePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	post, found, err := findPost(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.Author != userID {
		fail(c, http.StatusForbidden, "Unauthorized")
		return
	}

	if raw := c.PostForm("filesToDelete"); raw != "" {
		var toDelete []string
		if err := json.Unmarshal([]byte(raw), &toDelete); err != nil {
			fail(c, http.StatusBadRequest, "Invalid filesToDelete")
			return
		}
		doomed := make(map[string]bool, len(toDelete))
		for _, locator := range toDelete {
			doomed[locator] = true
		}

		kept := post.Files[:0]
		for _, f := range post.Files {
			if doomed[f.URL] {
				store.Delete(f.URL)
				continue
			}
			kept = append(kept, f)
		}
		post.Files = kept
	}

	if files := blogFiles(c); len(files) > 0 {
		attachments, err := stageBlogFiles(files)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		post.Files = append(post.Files, attachments...)
	}

	if title := c.PostForm("title"); title != "" {
		post.Title = title
	}
	if content := c.PostForm("content"); content != "" {
		post.Content = content
	}
	post.UpdatedAt = time.Now()

	if err := savePost(ctx, post); err != nil {
		c.Error(err)
		return
	}

	view, err := postView(ctx, post, false)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeletePost removes the aggregate. Every attachment owned transitively by
// the post is deleted from the store first; file failures are logged, never
// fatal, and the document removal proceeds regardless.
func DeletePost(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	post, found, err := findPost(ctx, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.Author != userID {
		fail(c, http.StatusForbidden, "Unauthorized")
		return
	}

	for _, f := range post.AllAttachments() {
		store.Delete(f.URL)
	}

	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": post.ID}); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func GetPost(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	post, found, err := findPost(ctx, c.Param("postId"))
	if err != nil {
		c.Error(err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, "Post not found")
		return
	}

	view, err := postView(ctx, post, true)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func GetPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cursor, err := database.Posts.Find(ctx, bson.M{})
	if err != nil {
		c.Error(err)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.Error(err)
		return
	}

	views, err := postViews(ctx, posts, true)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func GetUserPosts(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cursor, err := database.Posts.Find(ctx, bson.M{"author": authorID})
	if err != nil {
		c.Error(err)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.Error(err)
		return
	}

	views, err := postViews(ctx, posts, true)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetTopPosts ranks posts by like count plus comment count and returns at
// most the top 20, fully populated.
func GetTopPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{
			{Key: "totalLikesAndComments", Value: bson.D{
				{Key: "$add", Value: bson.A{
					bson.D{{Key: "$size", Value: "$likes"}},
					bson.D{{Key: "$size", Value: "$comments"}},
				}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalLikesAndComments", Value: -1}}}},
		{{Key: "$limit", Value: 20}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		c.Error(err)
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.Error(err)
		return
	}

	views, err := postViews(ctx, posts, true)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, views)
}
