package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/MStartsev/postcard/internal/audit"
	"github.com/MStartsev/postcard/internal/cache"
	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/internal/geocoding"
	"github.com/MStartsev/postcard/internal/images"
	"github.com/MStartsev/postcard/internal/repository"
	"github.com/MStartsev/postcard/pkg/log"
	"github.com/MStartsev/postcard/pkg/storage"
)

const (
	photoURLTTL = 24 * time.Hour

	// countConcurrency bounds the parallel comment-count lookups on a
	// feed read.
	countConcurrency = 8
)

// postService implements PostService.
type postService struct {
	posts      repository.PostRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	storage    storage.Storage
	geocoder   geocoding.Geocoder
	feedCache  cache.FeedCache
	normalizer *images.Normalizer
}

// NewPostService creates the post service.
func NewPostService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	store storage.Storage,
	geocoder geocoding.Geocoder,
	feedCache cache.FeedCache,
	normalizer *images.Normalizer,
) PostService {
	return &postService{
		posts:      posts,
		comments:   comments,
		users:      users,
		storage:    store,
		geocoder:   geocoder,
		feedCache:  feedCache,
		normalizer: normalizer,
	}
}

// ListAll returns the feed newest first. Comment counts are resolved live
// from the comment records, so a drifted denormalized counter heals on
// read. The assembled feed is cached best-effort.
func (s *postService) ListAll(ctx context.Context) ([]domain.Post, error) {
	l := log.Ctx(ctx)

	if cached, err := s.feedCache.GetFeed(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		l.Warn().Err(err).Msg("feed cache read failed, falling back to db")
	}

	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to list posts")
		return nil, err
	}

	if err := s.resolveCommentCounts(ctx, posts); err != nil {
		l.Error().Err(err).Msg("failed to resolve comment counts")
		return nil, err
	}

	if err := s.feedCache.SetFeed(ctx, posts); err != nil {
		l.Warn().Err(err).Msg("failed to populate feed cache")
	}

	return posts, nil
}

// ListByUser returns one user's posts newest first.
func (s *postService) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list user posts")
		return nil, err
	}
	return posts, nil
}

// Create publishes a post. Order matters: location is settled first, the
// photo is uploaded next, and the post record is written only after the
// upload completed, so no record ever references a pending blob.
func (s *postService) Create(ctx context.Context, userID string, req *domain.CreatePostRequest, image *domain.Upload) (*domain.Post, error) {
	l := log.Ctx(ctx)

	if strings.TrimSpace(req.Title) == "" {
		return nil, &domain.ValidationError{Field: "title", Message: domain.MsgTitleRequired}
	}
	if image == nil {
		return nil, &domain.ValidationError{Field: "image", Message: domain.MsgPhotoRequired}
	}

	location, err := s.resolveLocation(ctx, req)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to load author")
		return nil, err
	}

	imageURL, err := s.storePhoto(ctx, userID, image)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("photo upload failed")
		return nil, err
	}

	profile := author.ToProfile()
	post := &domain.Post{
		UserID:        userID,
		UserName:      profile.Login,
		UserAvatar:    author.Avatar,
		Image:         imageURL,
		Title:         strings.TrimSpace(req.Title),
		Location:      location,
		Likes:         []string{},
		CommentsCount: 0,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to create post")
		return nil, err
	}

	if err := s.feedCache.Invalidate(ctx); err != nil {
		l.Warn().Err(err).Msg("failed to invalidate feed cache")
	}

	audit.LogWithDetail(ctx, audit.ActionCreatePost, userID, post.ID, "post created")

	return post, nil
}

// ToggleLike flips the caller's membership in the post's like set.
func (s *postService) ToggleLike(ctx context.Context, postID, userID string) error {
	l := log.Ctx(ctx)

	liked, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to toggle like")
		return err
	}

	if err := s.feedCache.Invalidate(ctx); err != nil {
		l.Warn().Err(err).Msg("failed to invalidate feed cache")
	}

	action := audit.ActionUnlikePost
	if liked {
		action = audit.ActionLikePost
	}
	audit.LogWithDetail(ctx, action, userID, postID, "like toggled")

	return nil
}

// resolveLocation settles the post's place name. User input wins; a blank
// field falls back to reverse-geocoding the device position.
func (s *postService) resolveLocation(ctx context.Context, req *domain.CreatePostRequest) (string, error) {
	l := log.Ctx(ctx)

	if location := strings.TrimSpace(req.Location); location != "" {
		return location, nil
	}

	if req.Latitude == nil || req.Longitude == nil {
		return "", ErrLocationUnavailable
	}

	name, err := s.geocoder.ReverseResolve(ctx, *req.Latitude, *req.Longitude)
	if err != nil {
		if !errors.Is(err, geocoding.ErrNoMatch) {
			l.Warn().Err(err).Msg("reverse geocoding failed")
		}
		return "", ErrLocationUnavailable
	}
	if name == "" {
		return "", ErrLocationUnavailable
	}

	return name, nil
}

// storePhoto normalizes and uploads the post photo, returning its URL.
func (s *postService) storePhoto(ctx context.Context, userID string, image *domain.Upload) (string, error) {
	buf, err := s.normalizer.Normalize(image.Reader)
	if err != nil {
		return "", fmt.Errorf("normalize photo: %w", err)
	}

	key := fmt.Sprintf("posts/%s/%s.jpg", userID, ksuid.New().String())
	if err := s.storage.Write(ctx, key, buf, int64(buf.Len()), "image/jpeg"); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}

	url, err := s.storage.GetURL(ctx, key, photoURLTTL)
	if err != nil {
		return "", fmt.Errorf("resolve photo url: %w", err)
	}
	return url, nil
}

// resolveCommentCounts fills CommentsCount for each post from the comment
// records, a bounded-concurrency analogue of the client's parallel lookups.
func (s *postService) resolveCommentCounts(ctx context.Context, posts []domain.Post) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)

	for i := range posts {
		i := i
		g.Go(func() error {
			count, err := s.comments.CountByPost(gctx, posts[i].ID)
			if err != nil {
				return err
			}
			posts[i].CommentsCount = count
			return nil
		})
	}

	return g.Wait()
}
