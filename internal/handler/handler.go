package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MStartsev/postcard/internal/geocoding"
	"github.com/MStartsev/postcard/internal/middleware"
	"github.com/MStartsev/postcard/internal/service"
	"github.com/MStartsev/postcard/internal/store"
)

// Handler wires HTTP requests to the services and mirrors finished
// results into the two state containers, the way the client screens
// dispatch after a successful fetch.
type Handler struct {
	authService    service.AuthService
	postService    service.PostService
	commentService service.CommentService
	geocoder       geocoding.Geocoder

	authStore  *store.AuthStore
	postsStore *store.PostsStore

	authMiddleware *middleware.AuthMiddleware
	writeLimiter   *middleware.IPRateLimiter
}

// NewHandler creates the HTTP handler.
func NewHandler(
	authService service.AuthService,
	postService service.PostService,
	commentService service.CommentService,
	geocoder geocoding.Geocoder,
	authStore *store.AuthStore,
	postsStore *store.PostsStore,
	authMiddleware *middleware.AuthMiddleware,
	writeLimiter *middleware.IPRateLimiter,
) *Handler {
	return &Handler{
		authService:    authService,
		postService:    postService,
		commentService: commentService,
		geocoder:       geocoder,
		authStore:      authStore,
		postsStore:     postsStore,
		authMiddleware: authMiddleware,
		writeLimiter:   writeLimiter,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	limited := middleware.RateLimit(h.writeLimiter)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limited, h.Register)
			auth.POST("/login", limited, h.Login)
			auth.POST("/logout", h.authMiddleware.RequireAuth(), h.Logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware.RequireAuth())
		{
			users.GET("/me", h.GetMe)
			users.GET("/:id/posts", h.ListUserPosts)
		}

		posts := api.Group("/posts")
		posts.Use(h.authMiddleware.RequireAuth())
		{
			posts.GET("", h.ListPosts)
			posts.POST("", limited, h.CreatePost)
			posts.POST("/:id/like", h.ToggleLike)
			posts.GET("/:id/comments", h.ListComments)
			posts.POST("/:id/comments", limited, h.AddComment)
		}

		api.GET("/geocode", h.authMiddleware.RequireAuth(), h.Geocode)
	}
}
