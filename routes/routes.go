// Package routes is the route table of the blog API.
package routes

import (
	"net/http"

	"personal-blog/handlers"
	"personal-blog/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Posts      *handlers.PostHandler
	Comments   *handlers.CommentHandler
	Suggestion *handlers.SuggestionHandler
	Newsletter *handlers.NewsletterHandler
}

// Setup registers every route on router. Principal resolution must already
// be installed; rateLimit guards the credential endpoints.
func Setup(router *gin.Engine, h Handlers, rateLimit gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Account lifecycle
	router.POST("/register", rateLimit, h.Auth.Register)
	router.POST("/login", rateLimit, h.Auth.Login)
	router.GET("/logout", h.Auth.Logout)
	router.POST("/logout", h.Auth.Logout)
	router.POST("/reset_password", rateLimit, h.Auth.RequestReset)
	router.GET("/confirm_reset/:token", h.Auth.ValidateReset)
	router.POST("/confirm_reset/:token", rateLimit, h.Auth.ConfirmReset)

	router.POST("/delete_account", h.Auth.DeleteAccount)

	authenticated := router.Group("/")
	authenticated.Use(middleware.RequireAuthenticated())
	{
		authenticated.GET("/profile", h.Auth.GetProfile)

		authenticated.POST("/posts/:id/comments", h.Comments.CreateComment)
		authenticated.DELETE("/comments/:id", h.Comments.DeleteComment)

		authenticated.POST("/newsletter/signup", h.Newsletter.Signup)
		authenticated.POST("/newsletter/unsubscribe", h.Newsletter.Unsubscribe)
	}

	// Gated by the services: anonymous callers get 403 like everyone else
	// who is not allowed.
	router.GET("/edit_user_permissions", h.Users.GetUsers)
	router.GET("/become_blog_writer/:id", h.Users.BecomeBlogWriter)
	router.GET("/become_community_member/:id", h.Users.BecomeCommunityMember)
	router.DELETE("/users/:id", h.Users.DeleteUser)
	router.GET("/suggested_edits", h.Suggestion.GetSuggestions)
	router.DELETE("/suggested_edits/:id", h.Suggestion.DeleteSuggestion)
	router.POST("/newsletter/send", h.Newsletter.SendDigest)

	router.POST("/posts", h.Posts.CreatePost)
	router.PUT("/posts/:id", h.Posts.UpdatePost)
	router.DELETE("/posts/:id", h.Posts.DeletePost)

	// Public content
	router.GET("/posts", h.Posts.GetPosts)
	router.GET("/posts/:id", h.Posts.GetPost)
	router.POST("/suggest_edit", h.Suggestion.SuggestEdit)
}
