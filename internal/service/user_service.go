package service

import (
	"context"
	"fmt"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/validation"

	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// UserService implements profile reads and edits.
type UserService struct {
	users         repository.UserRepository
	store         *FileStore
	maxImageBytes int64
}

// UpdateProfileInput carries a multipart profile edit. Empty fields are left
// unchanged.
type UpdateProfileInput struct {
	UserID        uint
	Bio           string
	Email         string
	RemoveImage   bool
	ImageFilename string
	ImageContent  []byte
}

// NewUserService returns a new UserService.
func NewUserService(users repository.UserRepository, store *FileStore, maxImageSizeMB int) *UserService {
	return &UserService{
		users:         users,
		store:         store,
		maxImageBytes: int64(maxImageSizeMB) * 1024 * 1024,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

// UpdateProfile applies a profile edit. A new image replaces the old one on
// disk; the default sentinel image is shared and never deleted.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}

	if in.Email != "" && !strings.EqualFold(in.Email, user.Email) {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.users.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewValidationError("Email already in use")
		}
		user.Email = in.Email
	}

	previousImage := user.ProfileImage

	switch {
	case len(in.ImageContent) > 0:
		rel, err := s.storeProfileImage(in.ImageFilename, in.ImageContent)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = rel
	case in.RemoveImage:
		user.ProfileImage = models.DefaultProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		if user.ProfileImage != previousImage && user.HasCustomProfileImage() {
			_ = s.store.Remove(user.ProfileImage)
		}
		return nil, err
	}

	if user.ProfileImage != previousImage && previousImage != models.DefaultProfileImage {
		_ = s.store.Remove(previousImage)
	}

	return user, nil
}

func (s *UserService) storeProfileImage(filename string, content []byte) (string, error) {
	if int64(len(content)) > s.maxImageBytes {
		return "", models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", s.maxImageBytes/(1024*1024)))
	}
	ext := strings.ToLower(filenameExt(filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", models.NewValidationError("Profile image must be jpg, jpeg, png, or gif")
	}

	storedName := uuid.NewString() + ext
	return s.store.Save(profileImagesDir, storedName, content)
}

// SetAdmin grants or revokes moderation rights. Used by operator tooling.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
