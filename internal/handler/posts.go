package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/middleware"
	"github.com/MStartsev/postcard/internal/service"
	"github.com/MStartsev/postcard/internal/store"
	"github.com/MStartsev/postcard/pkg/log"
	"github.com/MStartsev/postcard/pkg/response"
)

const (
	msgPostNotFound        = "Пост не знайдено"
	msgLocationUnavailable = "Не вдалося визначити місцезнаходження"
)

// ListPosts returns the feed, newest first.
func (h *Handler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := h.postService.ListAll(ctx)
	if err != nil {
		h.postsStore.Dispatch(store.SetPostsError{Message: err.Error()})
		response.InternalError(c, "failed to load posts")
		return
	}

	h.postsStore.Dispatch(store.SetPosts{Posts: posts})

	response.Success(c, posts)
}

// ListUserPosts returns one user's posts, newest first.
func (h *Handler) ListUserPosts(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")

	// Only the caller's own collection belongs in the container.
	own := targetID == middleware.GetUserID(c)

	posts, err := h.postService.ListByUser(ctx, targetID)
	if err != nil {
		if own {
			h.postsStore.Dispatch(store.SetPostsError{Message: err.Error()})
		}
		response.InternalError(c, "failed to load posts")
		return
	}

	if own {
		h.postsStore.Dispatch(store.SetUserPosts{Posts: posts})
	}

	response.Success(c, posts)
}

// CreatePost publishes a post from a multipart form: photo file plus
// title, optional location and optional device coordinates.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create post request")
		response.BadRequest(c, err.Error())
		return
	}

	var image *domain.Upload
	if file, err := c.FormFile("image"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			l.Warn().Err(err).Msg("failed to open image part")
			response.BadRequest(c, "unreadable image file")
			return
		}
		defer f.Close()
		image = &domain.Upload{
			Reader:      f,
			Size:        file.Size,
			ContentType: file.Header.Get("Content-Type"),
		}
	}

	post, err := h.postService.Create(ctx, userID, &req, image)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Message)
			return
		}
		if errors.Is(err, service.ErrLocationUnavailable) {
			response.BadRequest(c, msgLocationUnavailable)
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("create post failed")
		response.InternalError(c, "failed to create post")
		return
	}

	h.postsStore.Dispatch(store.AddPost{Post: *post})

	response.Created(c, post)
}

// ToggleLike flips the caller's like on a post.
func (h *Handler) ToggleLike(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")
	userID := middleware.GetUserID(c)

	if err := h.postService.ToggleLike(ctx, postID, userID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, msgPostNotFound)
			return
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID).Msg("toggle like failed")
		response.InternalError(c, "failed to toggle like")
		return
	}

	h.postsStore.Dispatch(store.TogglePostLike{PostID: postID, UserID: userID})

	response.Success(c, gin.H{"postId": postID})
}
