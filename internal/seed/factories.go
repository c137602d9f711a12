// Package seed populates a database with realistic development data:
// users, project uploads in both pending and approved states, a follow
// mesh, and comment threads.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"projecthub/internal/models"
	"projecthub/internal/service"
)

// FactoryOptions control how factory objects are produced.
type FactoryOptions struct {
	// DryRun builds objects without persisting them.
	DryRun bool
	// SkipBcrypt stores a fixed placeholder hash instead of running bcrypt
	// per user. Hashing dominates seed time for large user counts.
	SkipBcrypt bool
	// MaxDays bounds how far in the past created_at timestamps are spread.
	MaxDays int
}

// DefaultPassword is the login password for every seeded account.
const DefaultPassword = "password123"

// Factory creates domain objects with fake but plausible data. Overrides
// run after defaults are filled in, so callers can pin any field.
type Factory struct {
	db    *gorm.DB
	store *service.FileStore
	opts  FactoryOptions
	// seq disambiguates generated usernames and stored filenames; fake
	// usernames collide once user counts grow.
	seq int
}

// NewFactory returns a Factory writing through db and store.
func NewFactory(db *gorm.DB, store *service.FileStore, opts FactoryOptions) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{db: db, store: store, opts: opts}
}

func (f *Factory) pastTime() time.Time {
	return time.Now().Add(-time.Duration(gofakeit.Number(1, f.opts.MaxDays*24)) * time.Hour)
}

// CreateUser creates a user with a unique lowercase username and a hash of
// DefaultPassword.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), f.seq)
	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		Bio:          gofakeit.Sentence(gofakeit.Number(5, 14)),
		ProfileImage: models.DefaultProfileImage,
		CreatedAt:    f.pastTime(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "$2a$10$seeded.placeholder.hash.not.a.real.credential000000000"
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		user.Password = string(hash)
	}

	for _, override := range overrides {
		override(user)
	}
	if f.opts.DryRun {
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create seed user %q: %w", user.Username, err)
	}
	return user, nil
}

// emptyZip is the 22-byte end-of-central-directory record of a zip archive
// with no entries. Every zip reader accepts it, which keeps seeded downloads
// working without shipping fixture archives.
var emptyZip = []byte{'P', 'K', 0x05, 0x06, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

// CreateProject creates a project owned by owner, backed by a real (empty)
// zip archive in the file store.
func (f *Factory) CreateProject(owner *models.User, overrides ...func(*models.Project)) (*models.Project, error) {
	title := fmt.Sprintf("%s %s", gofakeit.HackerAdjective(), gofakeit.HackerNoun())
	fileName := strings.ReplaceAll(strings.ToLower(title), " ", "-") + ".zip"

	project := &models.Project{
		Title:         titleCase(title),
		Description:   gofakeit.Paragraph(1, gofakeit.Number(2, 4), 12, " "),
		UserID:        owner.ID,
		Username:      owner.Username,
		FileName:      fileName,
		DownloadCount: int64(gofakeit.Number(0, 500)),
		IsApproved:    gofakeit.Bool(),
		CreatedAt:     f.pastTime(),
	}

	for _, override := range overrides {
		override(project)
	}
	if f.opts.DryRun {
		return project, nil
	}

	f.seq++
	stored := fmt.Sprintf("seed-%d-%s", f.seq, fileName)
	path, err := f.store.Save("projects", stored, emptyZip)
	if err != nil {
		return nil, fmt.Errorf("write seed archive for %q: %w", project.Title, err)
	}
	project.FilePath = path

	if err := f.db.Create(project).Error; err != nil {
		return nil, fmt.Errorf("create seed project %q: %w", project.Title, err)
	}
	return project, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CreateComment creates a comment by author on project, with the author's
// username snapshotted the way uploads do it.
func (f *Factory) CreateComment(author *models.User, project *models.Project, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		ProjectID: project.ID,
		UserID:    author.ID,
		Username:  author.Username,
		Text:      gofakeit.Sentence(gofakeit.Number(4, 18)),
		CreatedAt: f.pastTime(),
	}

	for _, override := range overrides {
		override(comment)
	}
	if f.opts.DryRun {
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create seed comment: %w", err)
	}
	return comment, nil
}

// CreateFollow creates a follow edge. Duplicate edges are skipped, so the
// mesh builder can pick pairs at random without tracking state.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	follow := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
	if f.opts.DryRun {
		return nil
	}
	err := f.db.Where("follower_id = ? AND followee_id = ?", follower.ID, followee.ID).
		FirstOrCreate(follow).Error
	if err != nil {
		return fmt.Errorf("create seed follow %d -> %d: %w", follower.ID, followee.ID, err)
	}
	return nil
}

// CreateAuditEntry records a moderation action against project as admin.
func (f *Factory) CreateAuditEntry(admin *models.User, project *models.Project, action models.AdminCommentAction, text string) error {
	entry := &models.AdminComment{
		ProjectID:     project.ID,
		AdminID:       admin.ID,
		AdminUsername: admin.Username,
		Text:          text,
		Action:        action,
		CreatedAt:     f.pastTime(),
	}
	if f.opts.DryRun {
		return nil
	}
	if err := f.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create seed audit entry: %w", err)
	}
	return nil
}
