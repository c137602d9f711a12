// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"io"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}
	if err := s.socialService.DecorateUser(c.UserContext(), user, userID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Description Edit bio, email, and profile image; multipart for image uploads
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param bio formData string false "Bio text"
// @Param email formData string false "New email"
// @Param remove_image formData bool false "Reset profile image to the default"
// @Param profile_image formData file false "New profile image"
// @Success 200 {object} models.User
// @Failure 400 {object} object{error=string}
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	in := service.UpdateProfileInput{UserID: userID}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		in.Bio = c.FormValue("bio")
		in.Email = c.FormValue("email")
		in.RemoveImage = c.FormValue("remove_image") == "true"

		if file, err := c.FormFile("profile_image"); err == nil {
			src, err := file.Open()
			if err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unable to read uploaded image"))
			}
			content, err := io.ReadAll(src)
			_ = src.Close()
			if err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Unable to read uploaded image"))
			}
			in.ImageFilename = file.Filename
			in.ImageContent = content
		}
	} else {
		var req struct {
			Bio         string `json:"bio"`
			Email       string `json:"email"`
			RemoveImage bool   `json:"remove_image"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Bio = req.Bio
		in.Email = req.Email
		in.RemoveImage = req.RemoveImage
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	users, err := s.userService.ListUsers(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.socialService.GetProfile(c.UserContext(), username, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// FollowUser handles POST /api/users/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := strings.TrimSpace(c.Params("username"))

	if err := s.socialService.Follow(c.UserContext(), userID, username); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Following " + username})
}

// UnfollowUser handles DELETE /api/users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := strings.TrimSpace(c.Params("username"))

	if err := s.socialService.Unfollow(c.UserContext(), userID, username); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed " + username})
}

// GetFollowers handles GET /api/users/:username/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))

	followers, err := s.socialService.ListFollowers(c.UserContext(), username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/:username/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Params("username"))

	following, err := s.socialService.ListFollowing(c.UserContext(), username)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(following)
}

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	viewerID, _ := s.optionalUserID(c)

	users, err := s.socialService.SearchUsers(c.UserContext(), q, viewerID, 20)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}
