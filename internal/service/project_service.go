package service

import (
	"context"
	"fmt"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"github.com/google/uuid"
)

// ProjectService implements the project lifecycle: upload, browse, edit,
// delete, download, and comments.
type ProjectService struct {
	projects       repository.ProjectRepository
	comments       repository.CommentRepository
	users          repository.UserRepository
	store          *FileStore
	maxUploadBytes int64
}

// UploadProjectInput carries a multipart project upload.
type UploadProjectInput struct {
	UserID      uint
	Title       string
	Description string
	Filename    string
	Content     []byte
}

// ProjectDetail bundles a project with its user comments for the details view.
type ProjectDetail struct {
	Project  models.Project   `json:"project"`
	Comments []models.Comment `json:"comments"`
}

// NewProjectService returns a new ProjectService.
func NewProjectService(
	projects repository.ProjectRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	store *FileStore,
	maxUploadSizeMB int,
) *ProjectService {
	return &ProjectService{
		projects:       projects,
		comments:       comments,
		users:          users,
		store:          store,
		maxUploadBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates and stores a project archive. The file is flushed to disk
// before the row is inserted so a visible row always has a backing file.
func (s *ProjectService) Upload(ctx context.Context, in UploadProjectInput) (project *models.Project, err error) {
	ctx, span := observability.StartSpan(ctx, "ProjectService.Upload")
	defer func() { observability.EndSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Title is required")
	}
	if description == "" {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Description is required")
	}
	if len(in.Content) == 0 {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadBytes {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadBytes/(1024*1024)))
	}
	if !strings.EqualFold(strings.TrimSpace(strings.ToLower(filenameExt(in.Filename))), ".zip") {
		observability.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, models.NewValidationError("Only .zip archives are accepted")
	}

	owner, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + "_" + sanitizeFilename(in.Filename)
	rel, err := s.store.Save(projectsDir, storedName, in.Content)
	if err != nil {
		return nil, err
	}

	project = &models.Project{
		Title:       title,
		Description: description,
		UserID:      owner.ID,
		Username:    owner.Username,
		FileName:    in.Filename,
		FilePath:    rel,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		// Keep disk and database consistent when the insert fails.
		_ = s.store.Remove(rel)
		return nil, err
	}

	observability.UploadsTotal.WithLabelValues("accepted").Inc()
	return project, nil
}

// ListFeed returns the public feed of approved projects, newest first.
func (s *ProjectService) ListFeed(ctx context.Context, limit, offset int) ([]models.Project, error) {
	return s.projects.ListApproved(ctx, limit, offset)
}

// ListMine returns all of the caller's projects regardless of approval state.
func (s *ProjectService) ListMine(ctx context.Context, userID uint) ([]models.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

// GetDetails returns a project with its comment thread.
func (s *ProjectService) GetDetails(ctx context.Context, projectID uint) (*ProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *project, Comments: comments}, nil
}

// UpdateDetails edits title and description. Owner only.
func (s *ProjectService) UpdateDetails(ctx context.Context, userID, projectID uint, title, description string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, models.NewUnauthorizedError("Only the owner can edit this project")
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}

	project.Title = title
	project.Description = description
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project, its comments, its audit trail, and its stored
// file. Owner only.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID uint) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.UserID != userID {
		return models.NewUnauthorizedError("Only the owner can delete this project")
	}

	if err := s.projects.DeleteCascade(ctx, projectID, true); err != nil {
		return err
	}
	return s.store.Remove(project.FilePath)
}

// Download resolves the archive for serving and bumps the download counter.
// Returns the project and the absolute file path.
func (s *ProjectService) Download(ctx context.Context, projectID uint) (*models.Project, string, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, "", err
	}
	if !s.store.Exists(project.FilePath) {
		return nil, "", models.NewNotFoundError("Project file", projectID)
	}
	if err := s.projects.IncrementDownloadCount(ctx, projectID); err != nil {
		return nil, "", err
	}
	observability.DownloadsTotal.Inc()
	return project, s.store.Abs(project.FilePath), nil
}

// AddComment appends a comment with a username snapshot of the author.
func (s *ProjectService) AddComment(ctx context.Context, userID, projectID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ProjectID: projectID,
		UserID:    author.ID,
		Username:  author.Username,
		Text:      text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Search returns approved projects matching the query, most downloaded first.
func (s *ProjectService) Search(ctx context.Context, query string, limit int) ([]models.Project, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Project{}, nil
	}
	return s.projects.SearchApproved(ctx, query, limit)
}

func filenameExt(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
