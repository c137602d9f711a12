package repository

import (
	"context"
	"errors"
	"strings"

	"projecthub/internal/cache"
	"projecthub/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	ListApproved(ctx context.Context, limit, offset int) ([]models.Project, error)
	ListPending(ctx context.Context) ([]models.Project, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Project, error)
	CountApproved(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
	IncrementDownloadCount(ctx context.Context, id uint) error
	Approve(ctx context.Context, id uint) error
	SearchApproved(ctx context.Context, query string, limit int) ([]models.Project, error)
	DeleteCascade(ctx context.Context, id uint, removeAuditTrail bool) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// projectCacheEntry is the Redis representation of a project. The stored
// file path is hidden from the API model's JSON, so it rides alongside to
// survive the cache round-trip.
type projectCacheEntry struct {
	Project  models.Project `json:"project"`
	FilePath string         `json:"file_path"`
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var entry projectCacheEntry

	err := cache.Aside(ctx, cache.ProjectKey(id), &entry, cache.ProjectTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&entry.Project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Project", id)
			}
			return models.NewInternalError(err)
		}
		entry.FilePath = entry.Project.FilePath
		return nil
	})

	if err != nil {
		return nil, err
	}
	project := entry.Project
	project.FilePath = entry.FilePath
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, project.ID)
	return nil
}

func (r *projectRepository) ListApproved(ctx context.Context, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) ListPending(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) CountApproved(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("is_approved = ?", true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *projectRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("is_approved = ?", false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// IncrementDownloadCount bumps the counter atomically in the database so
// concurrent downloads never lose increments.
func (r *projectRepository) IncrementDownloadCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Project", id)
	}
	cache.InvalidateProject(ctx, id)
	return nil
}

func (r *projectRepository) Approve(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("is_approved", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Project", id)
	}
	cache.InvalidateProject(ctx, id)
	return nil
}

// SearchApproved matches case-insensitive substrings of title, description,
// or owner username, most downloaded first.
func (r *projectRepository) SearchApproved(ctx context.Context, query string, limit int) ([]models.Project, error) {
	var projects []models.Project
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(username) LIKE ?",
			pattern, pattern, pattern).
		Order("download_count DESC").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

// DeleteCascade removes the project row together with its comments in one
// transaction. Audit-trail entries are removed only when removeAuditTrail is
// set (owner deletion); rejection keeps them as the moderation record.
func (r *projectRepository) DeleteCascade(ctx context.Context, id uint, removeAuditTrail bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if removeAuditTrail {
			if err := tx.Where("project_id = ?", id).Delete(&models.AdminComment{}).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Project", id)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, id)
	return nil
}
