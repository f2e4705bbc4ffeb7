package routes

import (
	"time"

	"campusfeed/handlers"
	"campusfeed/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handlers.Handler, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "Campus Feed API running", "service": "healthy"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.GET("/me", middleware.Authenticate(), h.Me)
	auth.GET("/users", middleware.RequireAdmin, h.ListUsers)

	posts := v1.Group("/posts")

	// Public reads
	posts.GET("/:postId/like", h.LikeCount)
	posts.GET("/:postId/comments", h.ListComments)

	protected := posts.Group("")
	protected.Use(middleware.Authenticate())
	protected.POST("/createPost", h.CreatePost)
	protected.GET("", h.ListPosts)
	protected.PUT("/:postId/edit", h.EditPost)
	protected.DELETE("/:postId/delete", h.DeletePost)
	protected.POST("/:postId/like", h.LikePost)
	protected.DELETE("/:postId/like", h.UnlikePost)
	protected.POST("/:postId/comment", h.CreateComment)
	protected.PUT("/:postId/comments/:commentId", h.UpdateComment)
	protected.DELETE("/:postId/comments/:commentId", h.DeleteComment)

	return router
}
