package service

import (
	"context"
	"testing"

	"projecthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadPending(t *testing.T, env *testEnv, owner *models.User, title string) *models.Project {
	t.Helper()
	project, err := env.projectService().Upload(context.Background(), UploadProjectInput{
		UserID:      owner.ID,
		Title:       title,
		Description: "pending project",
		Filename:    "bundle.zip",
		Content:     []byte("zip bytes"),
	})
	require.NoError(t, err)
	return project
}

func TestModerationService_Approve(t *testing.T) {
	env := setupEnv(t)
	svc := env.moderationService()
	ctx := context.Background()
	owner := env.createUser(t, "alice", false)
	admin := env.createUser(t, "admin", true)

	project := uploadPending(t, env, owner, "Pending")

	require.NoError(t, svc.Approve(ctx, admin.ID, project.ID, "ship it"))

	got, err := env.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)

	trail, err := env.adminNotes.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, models.AdminActionApprove, trail[0].Action)
	assert.Equal(t, "admin", trail[0].AdminUsername)

	t.Run("Approving again is accepted", func(t *testing.T) {
		require.NoError(t, svc.Approve(ctx, admin.ID, project.ID, "still good"))

		got, err := env.projects.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.True(t, got.IsApproved)

		trail, err := env.adminNotes.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Len(t, trail, 2)
	})

	t.Run("Approve without note leaves no audit entry", func(t *testing.T) {
		other := uploadPending(t, env, owner, "Quiet Approval")
		require.NoError(t, svc.Approve(ctx, admin.ID, other.ID, ""))

		trail, err := env.adminNotes.ListByProject(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, trail)
	})

	t.Run("Unknown project", func(t *testing.T) {
		err := svc.Approve(ctx, admin.ID, 9999, "")
		assert.Error(t, err)
	})
}

func TestModerationService_Reject(t *testing.T) {
	env := setupEnv(t)
	svc := env.moderationService()
	ctx := context.Background()
	owner := env.createUser(t, "alice", false)
	commenter := env.createUser(t, "bob", false)
	admin := env.createUser(t, "admin", true)

	project := uploadPending(t, env, owner, "Doomed")
	_, err := env.projectService().AddComment(ctx, commenter.ID, project.ID, "can't wait")
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, admin.ID, project.ID, "not a real project"))

	t.Run("Project row and file are gone", func(t *testing.T) {
		_, err := env.projects.GetByID(ctx, project.ID)
		assert.Error(t, err)
		assert.False(t, env.store.Exists(project.FilePath))
	})

	t.Run("User comments are gone", func(t *testing.T) {
		var count int64
		require.NoError(t, env.db.Model(&models.Comment{}).Where("project_id = ?", project.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Audit trail survives with the rejection reason", func(t *testing.T) {
		trail, err := env.adminNotes.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, trail, 1)
		assert.Equal(t, models.AdminActionReject, trail[0].Action)
		assert.Equal(t, "not a real project", trail[0].Text)
	})

	t.Run("Rejecting an unknown project", func(t *testing.T) {
		err := svc.Reject(ctx, admin.ID, 9999, "no such thing")
		assert.Error(t, err)
	})
}

func TestModerationService_AddComment(t *testing.T) {
	env := setupEnv(t)
	svc := env.moderationService()
	ctx := context.Background()
	owner := env.createUser(t, "alice", false)
	admin := env.createUser(t, "admin", true)

	project := uploadPending(t, env, owner, "Noted")

	comment, err := svc.AddComment(ctx, admin.ID, project.ID, "needs a README")
	require.NoError(t, err)
	assert.Equal(t, models.AdminActionComment, comment.Action)

	// The note changes nothing about the project state.
	got, err := env.projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, got.IsApproved)

	t.Run("Blank text rejected", func(t *testing.T) {
		_, err := svc.AddComment(ctx, admin.ID, project.ID, "  ")
		assert.Error(t, err)
	})
}

func TestModerationService_ProjectDetailAndDashboard(t *testing.T) {
	env := setupEnv(t)
	svc := env.moderationService()
	ctx := context.Background()
	owner := env.createUser(t, "alice", false)
	commenter := env.createUser(t, "bob", false)
	admin := env.createUser(t, "admin", true)

	pending := uploadPending(t, env, owner, "Pending")
	approved := uploadPending(t, env, owner, "Approved")
	require.NoError(t, svc.Approve(ctx, admin.ID, approved.ID, "fine"))
	_, err := env.projectService().AddComment(ctx, commenter.ID, approved.ID, "great")
	require.NoError(t, err)
	require.NoError(t, env.projects.IncrementDownloadCount(ctx, approved.ID))

	t.Run("Detail includes audit trail and user comments", func(t *testing.T) {
		detail, err := svc.GetProjectDetail(ctx, approved.ID)
		require.NoError(t, err)
		assert.Len(t, detail.AuditTrail, 1)
		assert.Len(t, detail.UserComments, 1)
	})

	t.Run("Dashboard aggregates queue and totals", func(t *testing.T) {
		data, err := svc.GetDashboard(ctx)
		require.NoError(t, err)

		require.Len(t, data.PendingProjects, 1)
		assert.Equal(t, pending.ID, data.PendingProjects[0].ID)
		assert.Len(t, data.ApprovedProjects, 1)
		assert.Len(t, data.Users, 3)
		assert.EqualValues(t, 3, data.TotalUsers)
		assert.EqualValues(t, 1, data.TotalAdmins)
		assert.EqualValues(t, 2, data.TotalProjects)
		assert.EqualValues(t, 1, data.TotalDownloads)
	})
}
