package seed

import (
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"projecthub/internal/models"
	"projecthub/internal/service"
)

// Options control a seeding run.
type Options struct {
	NumUsers    int
	NumProjects int
	// ShouldClean truncates all domain tables before seeding.
	ShouldClean bool
	// SkipBcrypt speeds up large runs; seeded accounts cannot log in.
	SkipBcrypt bool
	// Seed fixes the fake-data generator for reproducible runs. Zero means
	// randomize.
	Seed int64
}

// AdminUsername is the deterministic moderator account every seeded
// database contains, so the admin dashboard is reachable without promoting
// anyone by hand.
const AdminUsername = "moderator"

// Run populates the database with a full social mesh: users (one of them an
// admin), projects split between pending and approved, follows, comments,
// and audit-trail entries for the approved projects.
func Run(db *gorm.DB, store *service.FileStore, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumProjects <= 0 {
		opts.NumProjects = opts.NumUsers * 2
	}
	gofakeit.Seed(opts.Seed)

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return err
		}
	}

	factory := NewFactory(db, store, FactoryOptions{SkipBcrypt: opts.SkipBcrypt})

	admin, err := factory.CreateUser(func(u *models.User) {
		u.Username = AdminUsername
		u.Email = "moderator@projecthub.local"
		u.Bio = "Keeps the project feed tidy."
		u.IsAdmin = true
	})
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	users = append(users, admin)
	for i := 1; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	projects := make([]*models.Project, 0, opts.NumProjects)
	for i := 0; i < opts.NumProjects; i++ {
		owner := users[gofakeit.Number(0, len(users)-1)]
		project, err := factory.CreateProject(owner)
		if err != nil {
			return err
		}
		projects = append(projects, project)

		if project.IsApproved {
			err = factory.CreateAuditEntry(admin, project, models.AdminActionApprove,
				gofakeit.Sentence(gofakeit.Number(3, 8)))
			if err != nil {
				return err
			}
		}
	}

	// Each user follows a handful of others; CreateFollow drops self-edges
	// and duplicates.
	for _, follower := range users {
		for n := gofakeit.Number(1, 5); n > 0; n-- {
			followee := users[gofakeit.Number(0, len(users)-1)]
			if err := factory.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
	}

	comments := 0
	for _, project := range projects {
		if !project.IsApproved {
			continue
		}
		for n := gofakeit.Number(0, 4); n > 0; n-- {
			author := users[gofakeit.Number(0, len(users)-1)]
			if _, err := factory.CreateComment(author, project); err != nil {
				return err
			}
			comments++
		}
	}

	slog.Info("seed complete",
		"users", len(users),
		"projects", len(projects),
		"comments", comments,
		"admin", AdminUsername,
		"password", DefaultPassword)
	return nil
}

// Clean removes all rows from the domain tables, children first so foreign
// keys never dangle mid-run.
func Clean(db *gorm.DB) error {
	tables := []string{"admin_comments", "comments", "follows", "projects", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean table %s: %w", table, err)
		}
	}
	return nil
}
