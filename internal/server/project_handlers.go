// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"io"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// canViewProject reports whether the request may see an unapproved project.
// Pending projects exist only for their owner and for admins.
func (s *Server) canViewProject(c *fiber.Ctx, project *models.Project) bool {
	if project.IsApproved {
		return true
	}
	viewerID, ok := s.optionalUserID(c)
	if !ok {
		return false
	}
	if viewerID == project.UserID {
		return true
	}
	admin, err := s.isAdminByUserID(c.UserContext(), viewerID)
	return err == nil && admin
}

// UploadProject handles POST /api/projects
// @Summary Upload a project
// @Description Upload a zip archive with title and description; it stays pending until approved
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Project title"
// @Param description formData string true "Project description"
// @Param file formData file true "Project archive (.zip)"
// @Success 201 {object} models.Project
// @Failure 400 {object} object{error=string}
// @Router /projects [post]
func (s *Server) UploadProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	project, err := s.projectService.Upload(c.UserContext(), service.UploadProjectInput{
		UserID:      userID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Filename:    file.Filename,
		Content:     content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// GetProjectFeed handles GET /api/projects
// @Summary Browse approved projects
// @Tags projects
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Project
// @Router /projects [get]
func (s *Server) GetProjectFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	projects, err := s.projectService.ListFeed(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(projects)
}

// GetMyProjects handles GET /api/projects/me
func (s *Server) GetMyProjects(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	projects, err := s.projectService.ListMine(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(projects)
}

// GetProject handles GET /api/projects/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.projectService.GetDetails(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if !s.canViewProject(c, &detail.Project) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Project", id))
	}

	return c.JSON(detail)
}

// UpdateProject handles PUT /api/projects/:id (owner only)
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.UpdateDetails(c.UserContext(), userID, id, req.Title, req.Description)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(project)
}

// DeleteProject handles DELETE /api/projects/:id (owner only)
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.projectService.Delete(c.UserContext(), userID, id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Project deleted"})
}

// DownloadProject handles GET /api/projects/:id/download
// @Summary Download a project archive
// @Description Streams the zip under its original filename and bumps the download counter
// @Tags projects
// @Produce application/zip
// @Param id path int true "Project ID"
// @Success 200 {file} file
// @Failure 404 {object} object{error=string}
// @Router /projects/{id}/download [get]
func (s *Server) DownloadProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Gate before the counter moves so hidden projects don't accrue downloads.
	existing, err := s.projectRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if !s.canViewProject(c, existing) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Project", id))
	}

	project, path, err := s.projectService.Download(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	return c.Download(path, project.FileName)
}

// CreateProjectComment handles POST /api/projects/:id/comments
func (s *Server) CreateProjectComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.projectService.AddComment(c.UserContext(), userID, id, req.Text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetProjectComments handles GET /api/projects/:id/comments
func (s *Server) GetProjectComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.projectService.GetDetails(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if !s.canViewProject(c, &detail.Project) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Project", id))
	}

	return c.JSON(detail.Comments)
}

// SearchProjects handles GET /api/projects/search?q=...
func (s *Server) SearchProjects(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))

	projects, err := s.projectService.Search(c.UserContext(), q, 20)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(projects)
}
