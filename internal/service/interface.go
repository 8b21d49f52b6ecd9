package service

import (
	"context"
	"errors"

	"github.com/MStartsev/postcard/internal/domain"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateAccount    = errors.New("account already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrLocationUnavailable = errors.New("location unavailable")
)

// AuthService implements the register/login/logout flow.
type AuthService interface {
	// Register creates an account, optionally stores an avatar, and returns
	// a session. The avatar is best-effort: a failed upload never fails the
	// registration.
	Register(ctx context.Context, req *domain.RegisterRequest, avatar *domain.Upload) (*domain.Session, error)

	// Login authenticates credentials and returns a session.
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, error)

	// Logout revokes the session token. Best-effort: errors are logged,
	// never surfaced.
	Logout(ctx context.Context, rawToken, userID string)

	// GetProfile returns the profile for an authenticated user.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
}

// PostService implements the post feed operations.
type PostService interface {
	// ListAll returns the feed, newest first, with comment counts resolved
	// from the comment records at read time.
	ListAll(ctx context.Context) ([]domain.Post, error)

	// ListByUser returns one user's posts, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)

	// Create publishes a post. The image upload completes before the post
	// record is written. A blank location falls back to reverse-geocoding
	// the supplied device position; when neither yields a place name the
	// operation fails with ErrLocationUnavailable.
	Create(ctx context.Context, userID string, req *domain.CreatePostRequest, image *domain.Upload) (*domain.Post, error)

	// ToggleLike flips the caller's membership in the post's like set.
	ToggleLike(ctx context.Context, postID, userID string) error
}

// CommentService implements the comment thread operations.
type CommentService interface {
	// List returns a post's comments, oldest first.
	List(ctx context.Context, postID string) ([]domain.Comment, error)

	// Add appends a comment and returns it together with the post's new
	// comment count. Empty or whitespace-only text is rejected before any
	// write.
	Add(ctx context.Context, postID, authorID string, req *domain.AddCommentRequest) (*domain.Comment, int64, error)
}
