// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"projecthub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAdminDashboard handles GET /api/admin/dashboard
// @Summary Admin dashboard
// @Description Pending queue, approved projects, users, recent actions, and site totals
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardData
// @Failure 403 {object} object{error=string}
// @Router /admin/dashboard [get]
func (s *Server) GetAdminDashboard(c *fiber.Ctx) error {
	data, err := s.moderationService.GetDashboard(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(data)
}

// GetAdminProjectDetail handles GET /api/admin/projects/:id
func (s *Server) GetAdminProjectDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.moderationService.GetProjectDetail(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(detail)
}

// ApproveProject handles POST /api/admin/projects/:id/approve
func (s *Server) ApproveProject(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Note string `json:"note"`
	}
	// Body is optional; an approval does not need a note.
	_ = c.BodyParser(&req)

	if err := s.moderationService.Approve(c.UserContext(), adminID, id, req.Note); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Project approved"})
}

// RejectProject handles POST /api/admin/projects/:id/reject
func (s *Server) RejectProject(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Note string `json:"note"`
	}
	_ = c.BodyParser(&req)

	if err := s.moderationService.Reject(c.UserContext(), adminID, id, req.Note); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Project rejected"})
}

// CreateAdminComment handles POST /api/admin/projects/:id/comments
func (s *Server) CreateAdminComment(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
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

	comment, err := s.moderationService.AddComment(c.UserContext(), adminID, id, req.Text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, err := s.userService.SetAdmin(c.UserContext(), targetID, true)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "User promoted to admin", "user": target})
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if targetID == adminID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot demote yourself"))
	}

	target, err := s.userService.SetAdmin(c.UserContext(), targetID, false)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "User demoted from admin", "user": target})
}
