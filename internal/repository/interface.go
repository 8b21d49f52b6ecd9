package repository

import (
	"context"
	"errors"

	"github.com/MStartsev/postcard/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrPostNotFound = errors.New("post not found")
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateAvatar persists the avatar URL for a user. Pass nil to clear it.
	UpdateAvatar(ctx context.Context, userID string, url *string) error
}

// PostRepository persists posts and their like sets.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// ListAll returns every post, newest first.
	ListAll(ctx context.Context) ([]domain.Post, error)
	// ListByUser returns one user's posts, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	// ToggleLike flips userID's membership in the post's like set inside a
	// transaction and reports the resulting state (true = now liked).
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
}

// CommentRepository persists comments and keeps the owning post's
// denormalized counter in step.
type CommentRepository interface {
	// Create writes the comment and increments the post's comment counter
	// in one transaction, returning the new counter value.
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	// ListByPost returns a post's comments in chronological reading order
	// (oldest first).
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	// CountByPost counts the comment records for a post at read time.
	CountByPost(ctx context.Context, postID string) (int64, error)
}
