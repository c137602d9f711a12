// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"strings"

	"projecthub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchResults is the unified search response body.
type SearchResults struct {
	Projects []models.Project `json:"projects,omitempty"`
	Users    []models.User    `json:"users,omitempty"`
}

// Search handles GET /api/search?q=...&type=projects|users|all
// @Summary Unified search
// @Description Search approved projects (most downloaded first) and users by name or bio
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param type query string false "projects, users, or all (default all)"
// @Success 200 {object} SearchResults
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	kind := strings.ToLower(strings.TrimSpace(c.Query("type", "all")))
	viewerID, _ := s.optionalUserID(c)

	if kind != "projects" && kind != "users" && kind != "all" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("type must be one of: projects, users, all"))
	}

	results := SearchResults{}

	if kind == "projects" || kind == "all" {
		projects, err := s.projectService.Search(c.UserContext(), q, 20)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		results.Projects = projects
	}

	if kind == "users" || kind == "all" {
		users, err := s.socialService.SearchUsers(c.UserContext(), q, viewerID, 20)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		results.Users = users
	}

	return c.JSON(results)
}
