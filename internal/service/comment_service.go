package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MStartsev/postcard/internal/audit"
	"github.com/MStartsev/postcard/internal/cache"
	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/repository"
	"github.com/MStartsev/postcard/pkg/log"
)

// commentService implements CommentService.
type commentService struct {
	comments  repository.CommentRepository
	posts     repository.PostRepository
	users     repository.UserRepository
	feedCache cache.FeedCache
}

// NewCommentService creates the comment service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository, feedCache cache.FeedCache) CommentService {
	return &commentService{
		comments:  comments,
		posts:     posts,
		users:     users,
		feedCache: feedCache,
	}
}

// List returns a post's comments in chronological reading order.
func (s *commentService) List(ctx context.Context, postID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to list comments")
		return nil, err
	}
	return comments, nil
}

// Add appends a comment and bumps the post's counter. Text validation
// happens before any repository work.
func (s *commentService) Add(ctx context.Context, postID, authorID string, req *domain.AddCommentRequest) (*domain.Comment, int64, error) {
	l := log.Ctx(ctx)

	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, 0, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to load comment author")
		return nil, 0, err
	}

	profile := author.ToProfile()
	comment := &domain.Comment{
		PostID:     postID,
		UserID:     authorID,
		UserName:   profile.Login,
		UserAvatar: author.Avatar,
		Text:       strings.TrimSpace(req.Text),
	}

	newCount, err := s.comments.Create(ctx, comment)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, 0, ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to create comment")
		return nil, 0, err
	}

	if err := s.feedCache.Invalidate(ctx); err != nil {
		l.Warn().Err(err).Msg("failed to invalidate feed cache")
	}

	audit.LogWithDetail(ctx, audit.ActionAddComment, authorID, postID, "comment added")

	return comment, newCount, nil
}
