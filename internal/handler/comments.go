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

// ListComments returns a post's comments, oldest first.
func (h *Handler) ListComments(c *gin.Context) {
	ctx := c.Request.Context()
	postID := c.Param("id")

	comments, err := h.commentService.List(ctx, postID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID).Msg("list comments failed")
		response.InternalError(c, "failed to load comments")
		return
	}

	response.Success(c, comments)
}

// AddComment appends a comment to a post.
func (h *Handler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	postID := c.Param("id")
	userID := middleware.GetUserID(c)

	var req domain.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid add comment request")
		response.BadRequest(c, err.Error())
		return
	}

	comment, newCount, err := h.commentService.Add(ctx, postID, userID, &req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			response.ValidationFailed(c, verr.Message)
			return
		}
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, msgPostNotFound)
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("add comment failed")
		response.InternalError(c, "failed to add comment")
		return
	}

	h.postsStore.Dispatch(store.SetCommentsCount{PostID: postID, Count: newCount})

	response.Created(c, gin.H{
		"comment":       comment,
		"commentsCount": newCount,
	})
}
