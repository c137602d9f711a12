package repository

import (
	"testing"

	"projecthub/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test so cases cannot leak
// state into each other.
func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    email,
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *models.User, title string, approved bool) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:       title,
		Description: "A test project",
		UserID:      owner.ID,
		Username:    owner.Username,
		FileName:    "demo.zip",
		FilePath:    "uploads/projects/demo.zip",
		IsApproved:  approved,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}
