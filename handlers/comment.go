package handlers

import (
	"context"
	"net/http"
	"time"

	"scribe/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddComment appends a comment to the post's embedded sequence and saves the
// aggregate. Comment attachments are classified by the coarse content
// category of the upload, not the full declared type.
func AddComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

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

	text := c.PostForm("text")
	if text == "" {
		fail(c, http.StatusBadRequest, "Enter all the fields")
		return
	}

	files := blogFiles(c)
	locators, err := store.SaveBlogFiles(files)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	attachments := make([]models.Attachment, len(files))
	for i, fh := range files {
		attachments[i] = models.Attachment{
			URL:  locators[i],
			Type: models.CategoryKind(fh.Header.Get("Content-Type")),
		}
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    userID,
		CreatedAt: time.Now(),
		Likes:     []primitive.ObjectID{},
		Dislikes:  []primitive.ObjectID{},
		Files:     attachments,
		Replies:   []models.Reply{},
	}

	post.Comments = append(post.Comments, comment)
	if err := savePost(ctx, post); err != nil {
		store.DeleteAll(locators)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// AddReply appends a reply to a comment found by id within the post; the post
// is saved as the unit of persistence.
func AddReply(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

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

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	var comment *models.Comment
	if err == nil {
		comment = post.Comment(commentID)
	}
	if comment == nil {
		fail(c, http.StatusNotFound, "Comment not found within the specified post")
		return
	}

	text := c.PostForm("text")
	if text == "" {
		fail(c, http.StatusBadRequest, "Enter all the fields")
		return
	}

	reply := models.Reply{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    userID,
		CreatedAt: time.Now(),
		Likes:     []primitive.ObjectID{},
		Dislikes:  []primitive.ObjectID{},
	}

	comment.Replies = append(comment.Replies, reply)
	if err := savePost(ctx, post); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// DeleteComment is author-only. Attachments owned by the comment are deleted
// from the store before the comment is dropped from the aggregate.
func DeleteComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

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

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	var comment *models.Comment
	if err == nil {
		comment = post.Comment(commentID)
	}
	if comment == nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	if comment.Author != userID {
		fail(c, http.StatusForbidden, "Unauthorized")
		return
	}

	for _, f := range comment.AllAttachments() {
		store.Delete(f.URL)
	}

	post.RemoveComment(comment.ID)
	if err := savePost(ctx, post); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// DeleteReply is author-only. Replies own no attachments, so removal is a
// pure document mutation.
func DeleteReply(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

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

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	var comment *models.Comment
	if err == nil {
		comment = post.Comment(commentID)
	}
	if comment == nil {
		fail(c, http.StatusNotFound, "Comment not found")
		return
	}

	replyID, err := primitive.ObjectIDFromHex(c.Param("replyId"))
	var reply *models.Reply
	if err == nil {
		reply = comment.Reply(replyID)
	}
	if reply == nil {
		fail(c, http.StatusNotFound, "Reply not found")
		return
	}

	if reply.Author != userID {
		fail(c, http.StatusForbidden, "Unauthorized")
		return
	}

	comment.RemoveReply(reply.ID)
	if err := savePost(ctx, post); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted"})
}
