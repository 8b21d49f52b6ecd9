package repository

import (
	"context"
	"errors"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"

	"github.com/MStartsev/postcard/internal/domain"
	"github.com/MStartsev/postcard/pkg/database"
)

// GormPostRepository implements PostRepository using GORM.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM-based post repository.
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create persists a new post. IDs are k-sortable so they tie-break feed
// ordering consistently with creation time.
func (r *GormPostRepository) Create(ctx context.Context, post *domain.Post) error {
	post.ID = ksuid.New().String()
	if post.Likes == nil {
		post.Likes = []string{}
	}

	model := domain.PostToModel(post)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	post.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a post by ID.
func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var model domain.PostModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListAll returns every post ordered newest first.
func (r *GormPostRepository) ListAll(ctx context.Context) ([]domain.Post, error) {
	var models []domain.PostModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(models), nil
}

// ListByUser returns one user's posts ordered newest first.
func (r *GormPostRepository) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	var models []domain.PostModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(models), nil
}

// ToggleLike flips userID's membership in the post's like set. The
// transaction keeps the read and the write of one toggle atomic, but
// takes no row lock: toggles racing under read-committed isolation are
// last-writer-wins on the whole set, the same as the original client's
// whole-record write. sqlite's single writer serializes them fully.
func (r *GormPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model domain.PostModel
		if err := tx.First(&model, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		likes := database.StringSet(model.Likes).Toggle(userID)
		liked = likes.Contains(userID)

		return tx.Model(&domain.PostModel{}).
			Where("id = ?", postID).
			Update("likes", likes).Error
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func toDomainPosts(models []domain.PostModel) []domain.Post {
	posts := make([]domain.Post, 0, len(models))
	for i := range models {
		posts = append(posts, *models[i].ToDomain())
	}
	return posts
}
