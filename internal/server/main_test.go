package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"projecthub/internal/config"
	"projecthub/internal/featureflags"
	"projecthub/internal/middleware"
	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// newTestServer builds a Server over an in-memory database and a temp-dir
// file store, with all routes registered.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Project{},
		&models.Comment{},
		&models.AdminComment{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:       testJWTSecret,
		Port:            "0",
		Env:             "test",
		UploadRoot:      t.TempDir(),
		MaxUploadSizeMB: 5,
		MaxImageSizeMB:  1,
	}
	middleware.InitMiddleware(cfg)
	middleware.SetTokenBlacklist(nil)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	adminCommentRepo := repository.NewAdminCommentRepository(db)
	store := service.NewFileStore(cfg.UploadRoot)

	s := &Server{
		config:            cfg,
		db:                db,
		userRepo:          userRepo,
		followRepo:        followRepo,
		projectRepo:       projectRepo,
		commentRepo:       commentRepo,
		adminCommentRepo:  adminCommentRepo,
		store:             store,
		featureFlags:      featureflags.NewManager(""),
		projectService:    service.NewProjectService(projectRepo, commentRepo, userRepo, store, cfg.MaxUploadSizeMB),
		moderationService: service.NewModerationService(db, projectRepo, adminCommentRepo, userRepo, store),
		socialService:     service.NewSocialService(followRepo, userRepo, projectRepo),
		userService:       service.NewUserService(userRepo, store, cfg.MaxImageSizeMB),
	}

	app := fiber.New(fiber.Config{
		BodyLimit: (cfg.MaxUploadSizeMB + 1) * 1024 * 1024,
	})
	s.SetupRoutes(app)

	return s, app
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string, isAdmin bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		IsAdmin:  isAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func bearer(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

// multipartBody builds a multipart form with string fields and one optional file.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, writer.FormDataContentType()
}

func createTestProject(t *testing.T, s *Server, owner *models.User, title string, approved bool) *models.Project {
	t.Helper()
	project, err := s.projectService.Upload(context.Background(), service.UploadProjectInput{
		UserID:      owner.ID,
		Title:       title,
		Description: "a test project",
		Filename:    "archive.zip",
		Content:     []byte("PK\x03\x04 zip bytes"),
	})
	if err != nil {
		t.Fatalf("upload project: %v", err)
	}
	if approved {
		if err := s.projectRepo.Approve(context.Background(), project.ID); err != nil {
			t.Fatalf("approve project: %v", err)
		}
		project.IsApproved = true
	}
	return project
}
