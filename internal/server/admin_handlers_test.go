package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"projecthub/internal/models"
	"projecthub/internal/service"
)

func TestAdminRequired(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s.db, "alice", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)

	t.Run("non-admin is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.Header.Set("Authorization", bearer(t, s, user))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.Header.Set("Authorization", bearer(t, s, admin))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})
}

func TestApproveProjectEndpoint(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)
	project := createTestProject(t, s, owner, "Pending", false)

	req := postJSON(t, fmt.Sprintf("/api/admin/projects/%d/approve", project.ID),
		map[string]string{"note": "looks good"})
	req.Header.Set("Authorization", bearer(t, s, admin))
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got, err := s.projectRepo.GetByID(t.Context(), project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if !got.IsApproved {
		t.Errorf("project should be approved")
	}

	t.Run("now visible in the public feed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		resp, _ := app.Test(req, -1)

		var feed []models.Project
		json.NewDecoder(resp.Body).Decode(&feed)
		if len(feed) != 1 {
			t.Errorf("expected the approved project in the feed, got %d entries", len(feed))
		}
	})
}

func TestRejectProjectEndpoint(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)
	project := createTestProject(t, s, owner, "Doomed", false)

	req := postJSON(t, fmt.Sprintf("/api/admin/projects/%d/reject", project.ID),
		map[string]string{"note": "not a project"})
	req.Header.Set("Authorization", bearer(t, s, admin))
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if _, err := s.projectRepo.GetByID(t.Context(), project.ID); err == nil {
		t.Errorf("rejected project should be gone")
	}
	if s.store.Exists(project.FilePath) {
		t.Errorf("archive should be removed from disk")
	}

	trail, err := s.adminCommentRepo.ListByProject(t.Context(), project.ID)
	if err != nil {
		t.Fatalf("load audit trail: %v", err)
	}
	if len(trail) != 1 || trail[0].Action != models.AdminActionReject {
		t.Errorf("expected a surviving reject audit entry, got %v", trail)
	}
}

func TestAdminProjectDetailAndComments(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)
	project := createTestProject(t, s, owner, "Reviewed", false)
	auth := bearer(t, s, admin)

	req := postJSON(t, fmt.Sprintf("/api/admin/projects/%d/comments", project.ID),
		map[string]string{"text": "needs a README"})
	req.Header.Set("Authorization", auth)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	detailReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/admin/projects/%d", project.ID), nil)
	detailReq.Header.Set("Authorization", auth)
	resp, _ = app.Test(detailReq, -1)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var detail service.AdminProjectDetail
	json.NewDecoder(resp.Body).Decode(&detail)
	if len(detail.AuditTrail) != 1 {
		t.Errorf("expected 1 audit entry, got %d", len(detail.AuditTrail))
	}
	if detail.AuditTrail[0].AdminUsername != "admin" {
		t.Errorf("expected admin username snapshot, got %q", detail.AuditTrail[0].AdminUsername)
	}
}

func TestPromoteAndDemote(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s.db, "alice", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)
	auth := bearer(t, s, admin)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/users/%d/promote", user.ID), nil)
	req.Header.Set("Authorization", auth)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	promoted, _ := s.userRepo.GetByID(t.Context(), user.ID)
	if !promoted.IsAdmin {
		t.Errorf("user should be admin")
	}

	t.Run("self-demotion rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/users/%d/demote", admin.ID), nil)
		req.Header.Set("Authorization", auth)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("demote another admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/admin/users/%d/demote", user.ID), nil)
		req.Header.Set("Authorization", auth)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		demoted, _ := s.userRepo.GetByID(t.Context(), user.ID)
		if demoted.IsAdmin {
			t.Errorf("user should no longer be admin")
		}
	})
}

func TestAdminDashboardTotals(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)

	createTestProject(t, s, owner, "Pending", false)
	approved := createTestProject(t, s, owner, "Approved", true)
	if err := s.projectRepo.IncrementDownloadCount(t.Context(), approved.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", bearer(t, s, admin))
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var data service.DashboardData
	json.NewDecoder(resp.Body).Decode(&data)
	if len(data.PendingProjects) != 1 {
		t.Errorf("expected 1 pending project, got %d", len(data.PendingProjects))
	}
	if data.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", data.TotalUsers)
	}
	if data.TotalDownloads != 1 {
		t.Errorf("expected 1 download total, got %d", data.TotalDownloads)
	}
}
