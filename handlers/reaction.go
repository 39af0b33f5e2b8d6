package handlers

import (
	"context"
	"net/http"

	"scribe/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactToPost returns a handler toggling the given reaction on the post's
// vote sets and saving the aggregate.
func ReactToPost(action models.Reaction) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		models.Toggle(action, &post.Likes, &post.Dislikes, userID)
		if err := savePost(ctx, post); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Post " + string(action) + "d", "post": post})
	}
}

func ReactToComment(action models.Reaction) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		models.Toggle(action, &comment.Likes, &comment.Dislikes, userID)
		if err := savePost(ctx, post); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Comment " + string(action) + "d", "comment": comment})
	}
}

func ReactToReply(action models.Reaction) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		models.Toggle(action, &reply.Likes, &reply.Dislikes, userID)
		if err := savePost(ctx, post); err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Reply " + string(action) + "d", "comment": comment})
	}
}

// BookmarkPost toggles the caller in the post's bookmark set.
func BookmarkPost(c *gin.Context) {
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

	models.ToggleBookmark(&post.Bookmarks, userID)
	if err := savePost(ctx, post); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": post.Title + " Bookmarked", "post": post})
}
