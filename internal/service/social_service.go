package service

import (
	"context"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"
)

// SocialService manages the follow graph and profile reads.
type SocialService struct {
	follows  repository.FollowRepository
	users    repository.UserRepository
	projects repository.ProjectRepository
}

// Profile is a user profile decorated with follow state and their projects.
type Profile struct {
	User     models.User      `json:"user"`
	Projects []models.Project `json:"projects"`
}

// NewSocialService returns a new SocialService.
func NewSocialService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	projects repository.ProjectRepository,
) *SocialService {
	return &SocialService{follows: follows, users: users, projects: projects}
}

// resolveTarget maps a username to a followable user. Missing users and the
// caller's own account both read as not found.
func (s *SocialService) resolveTarget(ctx context.Context, callerID uint, username string) (*models.User, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target == nil || target.ID == callerID {
		return nil, models.NewNotFoundError("User", username)
	}
	return target, nil
}

// Follow inserts the edge. Following a user twice is accepted and changes
// nothing.
func (s *SocialService) Follow(ctx context.Context, followerID uint, username string) error {
	target, err := s.resolveTarget(ctx, followerID, username)
	if err != nil {
		return err
	}

	exists, err := s.follows.Exists(ctx, followerID, target.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.follows.Create(ctx, &models.Follow{
		FollowerID: followerID,
		FolloweeID: target.ID,
	}); err != nil {
		return err
	}

	observability.FollowEventsTotal.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge; removing a missing edge is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, followerID uint, username string) error {
	target, err := s.resolveTarget(ctx, followerID, username)
	if err != nil {
		return err
	}
	if err := s.follows.Delete(ctx, followerID, target.ID); err != nil {
		return err
	}

	observability.FollowEventsTotal.WithLabelValues("unfollow").Inc()
	return nil
}

// GetProfile returns the profile for username as seen by viewerID (0 for
// anonymous). Pending projects are visible only to their owner.
func (s *SocialService) GetProfile(ctx context.Context, username string, viewerID uint) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	if err := s.DecorateUser(ctx, user, viewerID); err != nil {
		return nil, err
	}

	projects, err := s.projects.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if viewerID != user.ID {
		visible := projects[:0]
		for _, p := range projects {
			if p.IsApproved {
				visible = append(visible, p)
			}
		}
		projects = visible
	}

	return &Profile{User: *user, Projects: projects}, nil
}

// DecorateUser fills the computed follow fields on a user record.
func (s *SocialService) DecorateUser(ctx context.Context, user *models.User, viewerID uint) error {
	var err error
	if user.FollowerCount, err = s.follows.CountFollowers(ctx, user.ID); err != nil {
		return err
	}
	if user.FollowingCount, err = s.follows.CountFollowing(ctx, user.ID); err != nil {
		return err
	}
	if viewerID != 0 && viewerID != user.ID {
		if user.IsFollowedByCurrentUser, err = s.follows.Exists(ctx, viewerID, user.ID); err != nil {
			return err
		}
	}
	return nil
}

// ListFollowers returns the users following username.
func (s *SocialService) ListFollowers(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.follows.ListFollowers(ctx, user.ID)
}

// ListFollowing returns the users username follows.
func (s *SocialService) ListFollowing(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.follows.ListFollowing(ctx, user.ID)
}

// SearchUsers returns users matching the query with follow state for the
// viewer.
func (s *SocialService) SearchUsers(ctx context.Context, query string, viewerID uint, limit int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	users, err := s.users.SearchByUsername(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if err := s.DecorateUser(ctx, &users[i], viewerID); err != nil {
			return nil, err
		}
	}
	return users, nil
}
