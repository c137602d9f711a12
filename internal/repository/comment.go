package repository

import (
	"context"
	"errors"

	"projecthub/internal/cache"
	"projecthub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Comment, error)
	DeleteByProject(ctx context.Context, projectID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ProjectCommentsKey(comment.ProjectID))
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Comment, error) {
	var comments []models.Comment
	key := cache.ProjectCommentsKey(projectID)

	err := cache.Aside(ctx, key, &comments, cache.CommentsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("project_id = ?", projectID).
			Order("created_at ASC").
			Find(&comments).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ProjectCommentsKey(projectID))
	return nil
}
