package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// AdminCommentRepository defines interface for the moderation audit trail.
// Entries are append-only; there is no update or single-row delete.
type AdminCommentRepository interface {
	Create(ctx context.Context, comment *models.AdminComment) error
	ListByProject(ctx context.Context, projectID uint) ([]models.AdminComment, error)
	ListRecent(ctx context.Context, limit int) ([]models.AdminComment, error)
}

type adminCommentRepository struct {
	db *gorm.DB
}

// NewAdminCommentRepository creates a new AdminCommentRepository
func NewAdminCommentRepository(db *gorm.DB) AdminCommentRepository {
	return &adminCommentRepository{db: db}
}

func (r *adminCommentRepository) Create(ctx context.Context, comment *models.AdminComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *adminCommentRepository) ListByProject(ctx context.Context, projectID uint) ([]models.AdminComment, error) {
	var comments []models.AdminComment
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *adminCommentRepository) ListRecent(ctx context.Context, limit int) ([]models.AdminComment, error) {
	var comments []models.AdminComment
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
