package service

import (
	"context"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

// ModerationService drives the project approval workflow. Each project is
// pending until an admin approves it (terminal, visible) or rejects it
// (terminal, deleted). Every action can leave an audit-trail entry.
type ModerationService struct {
	db            *gorm.DB
	projects      repository.ProjectRepository
	adminComments repository.AdminCommentRepository
	users         repository.UserRepository
	store         *FileStore
}

// AdminProjectDetail aggregates a project with its moderation audit trail.
type AdminProjectDetail struct {
	Project      models.Project        `json:"project"`
	AuditTrail   []models.AdminComment `json:"audit_trail"`
	UserComments []models.Comment      `json:"user_comments"`
}

// DashboardData is the admin overview: work queue plus site totals.
type DashboardData struct {
	PendingProjects  []models.Project      `json:"pending_projects"`
	ApprovedProjects []models.Project      `json:"approved_projects"`
	Users            []models.User         `json:"users"`
	RecentActions    []models.AdminComment `json:"recent_actions"`
	TotalUsers       int64                 `json:"total_users"`
	TotalAdmins      int64                 `json:"total_admins"`
	TotalProjects    int64                 `json:"total_projects"`
	TotalDownloads   int64                 `json:"total_downloads"`
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	db *gorm.DB,
	projects repository.ProjectRepository,
	adminComments repository.AdminCommentRepository,
	users repository.UserRepository,
	store *FileStore,
) *ModerationService {
	return &ModerationService{
		db:            db,
		projects:      projects,
		adminComments: adminComments,
		users:         users,
		store:         store,
	}
}

// Approve marks the project visible. Approving an already-approved project is
// accepted; the flag write is idempotent and any note is appended again.
func (s *ModerationService) Approve(ctx context.Context, adminID, projectID uint, note string) (err error) {
	ctx, span := observability.StartSpan(ctx, "ModerationService.Approve")
	defer func() { observability.EndSpan(span, err) }()

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return err
	}

	if err := s.projects.Approve(ctx, projectID); err != nil {
		return err
	}

	if note = strings.TrimSpace(note); note != "" {
		if err := s.adminComments.Create(ctx, &models.AdminComment{
			ProjectID:     projectID,
			AdminID:       admin.ID,
			AdminUsername: admin.Username,
			Text:          note,
			Action:        models.AdminActionApprove,
		}); err != nil {
			return err
		}
	}

	observability.ModerationActionsTotal.WithLabelValues(string(models.AdminActionApprove)).Inc()
	return nil
}

// Reject removes the project. The audit entry is written before the project
// row is deleted; it survives the cascade as the record of why the project
// disappeared. User comments and the stored file are removed.
func (s *ModerationService) Reject(ctx context.Context, adminID, projectID uint, note string) (err error) {
	ctx, span := observability.StartSpan(ctx, "ModerationService.Reject")
	defer func() { observability.EndSpan(span, err) }()

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.adminComments.Create(ctx, &models.AdminComment{
		ProjectID:     projectID,
		AdminID:       admin.ID,
		AdminUsername: admin.Username,
		Text:          strings.TrimSpace(note),
		Action:        models.AdminActionReject,
	}); err != nil {
		return err
	}

	if err := s.projects.DeleteCascade(ctx, projectID, false); err != nil {
		return err
	}
	if err := s.store.Remove(project.FilePath); err != nil {
		return err
	}

	observability.ModerationActionsTotal.WithLabelValues(string(models.AdminActionReject)).Inc()
	return nil
}

// AddComment appends a moderation note without changing project state.
func (s *ModerationService) AddComment(ctx context.Context, adminID, projectID uint, text string) (*models.AdminComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	comment := &models.AdminComment{
		ProjectID:     projectID,
		AdminID:       admin.ID,
		AdminUsername: admin.Username,
		Text:          text,
		Action:        models.AdminActionComment,
	}
	if err := s.adminComments.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.ModerationActionsTotal.WithLabelValues(string(models.AdminActionComment)).Inc()
	return comment, nil
}

// GetProjectDetail returns a project with its full audit trail for admin view.
func (s *ModerationService) GetProjectDetail(ctx context.Context, projectID uint) (*AdminProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	trail, err := s.adminComments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var userComments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&userComments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AdminProjectDetail{
		Project:      *project,
		AuditTrail:   trail,
		UserComments: userComments,
	}, nil
}

// GetDashboard aggregates the moderation work queue and site totals.
func (s *ModerationService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	var err error
	if data.PendingProjects, err = s.projects.ListPending(ctx); err != nil {
		return nil, err
	}
	if data.ApprovedProjects, err = s.projects.ListApproved(ctx, 100, 0); err != nil {
		return nil, err
	}
	if data.Users, err = s.users.List(ctx, 100, 0); err != nil {
		return nil, err
	}
	if data.RecentActions, err = s.adminComments.ListRecent(ctx, 20); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&data.TotalUsers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", true).Count(&data.TotalAdmins).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	approved, err := s.projects.CountApproved(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.projects.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	data.TotalProjects = approved + pending

	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Select("COALESCE(SUM(download_count), 0)").
		Scan(&data.TotalDownloads).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return data, nil
}
