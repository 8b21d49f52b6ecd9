package repository

import (
	"context"
	"errors"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"

	"github.com/MStartsev/postcard/internal/domain"
)

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GORM-based comment repository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create writes the comment and bumps the owning post's denormalized
// counter in a single transaction, so a failed increment can no longer
// leave an undercounted post behind.
func (r *GormCommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	comment.ID = ksuid.New().String()

	var newCount int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.PostModel
		if err := tx.First(&post, "id = ?", comment.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		model := domain.CommentToModel(comment)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		comment.CreatedAt = model.CreatedAt

		newCount = post.CommentsCount + 1
		return tx.Model(&domain.PostModel{}).
			Where("id = ?", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// ListByPost returns a post's comments oldest first.
func (r *GormCommentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var models []domain.CommentModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(models))
	for i := range models {
		comments = append(comments, *models[i].ToDomain())
	}
	return comments, nil
}

// CountByPost counts comment records for a post at read time.
func (r *GormCommentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CommentModel{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
