package cache

import (
	"context"
	"errors"

	"github.com/MStartsev/postcard/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// FeedCache caches the fully-resolved feed (posts with live comment
// counts). All operations are best-effort: callers log failures and fall
// through to the database.
type FeedCache interface {
	GetFeed(ctx context.Context) ([]domain.Post, error)
	SetFeed(ctx context.Context, posts []domain.Post) error
	// Invalidate drops the cached feed. Every write path calls it so reads
	// never serve a feed older than the last local write.
	Invalidate(ctx context.Context) error
	Close() error
}

// Noop is a FeedCache that caches nothing; used when redis is not
// configured.
type Noop struct{}

func (Noop) GetFeed(ctx context.Context) ([]domain.Post, error) { return nil, ErrCacheMiss }
func (Noop) SetFeed(ctx context.Context, posts []domain.Post) error { return nil }
func (Noop) Invalidate(ctx context.Context) error { return nil }
func (Noop) Close() error { return nil }
