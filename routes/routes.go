package routes

import (
	"time"

	"scribe/handlers"
	"scribe/middleware"
	"scribe/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Setup builds the router. uploadRoot is the content root served statically
// at /uploads; attachment locators resolve under it.
func Setup(uploadRoot string) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	router.Static("/uploads", uploadRoot)

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	auth := router.Group("/auth", middleware.RateLimit(60, time.Minute))
	auth.POST("/register", handlers.Register)
	auth.POST("/login", handlers.Login)
	auth.PUT("/changePassword/:id", middleware.Auth(), handlers.ChangePassword)
	auth.PUT("/update/:id", middleware.Auth(), handlers.UpdateProfile)

	docs := router.Group("/docs")

	// Reads are public.
	docs.GET("", handlers.GetPosts)
	docs.GET("/top", handlers.GetTopPosts)
	docs.GET("/user/:userId", handlers.GetUserPosts)
	docs.GET("/:postId", handlers.GetPost)

	protected := docs.Group("", middleware.Auth())
	protected.POST("/newDoc", handlers.CreatePost)
	protected.PUT("/update/:id", handlers.UpdatePost)
	protected.DELETE("/delete/:id", handlers.DeletePost)

	protected.POST("/:postId/comment", handlers.AddComment)
	protected.POST("/:postId/comments/:commentId/reply", handlers.AddReply)
	protected.DELETE("/:postId/comments/:commentId", handlers.DeleteComment)
	protected.DELETE("/:postId/comments/:commentId/replies/:replyId", handlers.DeleteReply)

	protected.POST("/:postId/like", handlers.ReactToPost(models.ReactionLike))
	protected.POST("/:postId/dislike", handlers.ReactToPost(models.ReactionDislike))
	protected.POST("/:postId/bookmark", handlers.BookmarkPost)
	protected.POST("/:postId/comments/:commentId/like", handlers.ReactToComment(models.ReactionLike))
	protected.POST("/:postId/comments/:commentId/dislike", handlers.ReactToComment(models.ReactionDislike))
	protected.POST("/:postId/comments/:commentId/replies/:replyId/like", handlers.ReactToReply(models.ReactionLike))
	protected.POST("/:postId/comments/:commentId/replies/:replyId/dislike", handlers.ReactToReply(models.ReactionDislike))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":     "error",
			"statusCode": 404,
			"message":    "Endpoint not found",
		})
	})

	return router
}
