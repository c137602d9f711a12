package service

import (
	"testing"

	"projecthub/internal/models"
	"projecthub/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories over an in-memory database and a temp-dir
// file store, so service tests exercise the full write path.
type testEnv struct {
	db         *gorm.DB
	store      *FileStore
	users      repository.UserRepository
	follows    repository.FollowRepository
	projects   repository.ProjectRepository
	comments   repository.CommentRepository
	adminNotes repository.AdminCommentRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Project{},
		&models.Comment{},
		&models.AdminComment{},
	))

	return &testEnv{
		db:         db,
		store:      NewFileStore(t.TempDir()),
		users:      repository.NewUserRepository(db),
		follows:    repository.NewFollowRepository(db),
		projects:   repository.NewProjectRepository(db),
		comments:   repository.NewCommentRepository(db),
		adminNotes: repository.NewAdminCommentRepository(db),
	}
}

func (e *testEnv) projectService() *ProjectService {
	return NewProjectService(e.projects, e.comments, e.users, e.store, 50)
}

func (e *testEnv) moderationService() *ModerationService {
	return NewModerationService(e.db, e.projects, e.adminNotes, e.users, e.store)
}

func (e *testEnv) socialService() *SocialService {
	return NewSocialService(e.follows, e.users, e.projects)
}

func (e *testEnv) userService() *UserService {
	return NewUserService(e.users, e.store, 5)
}

func (e *testEnv) createUser(t *testing.T, username string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		IsAdmin:  isAdmin,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}
