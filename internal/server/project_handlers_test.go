package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"projecthub/internal/models"
)

func TestUploadProject(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s.db, "alice", "pw", false)
	auth := bearer(t, s, user)

	t.Run("success", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"title":       "Chess Engine",
			"description": "A UCI chess engine",
		}, "file", "chess.zip", []byte("PK\x03\x04 zip bytes"))

		req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", auth)

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}

		var project models.Project
		json.NewDecoder(resp.Body).Decode(&project)
		if project.IsApproved {
			t.Errorf("new uploads must be pending")
		}
		if project.FileName != "chess.zip" {
			t.Errorf("expected original filename, got %q", project.FileName)
		}
		if project.Username != "alice" {
			t.Errorf("expected username snapshot, got %q", project.Username)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"title":       "No File",
			"description": "desc",
		}, "", "", nil)

		req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", auth)

		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"title":       "Tarball",
			"description": "desc",
		}, "file", "project.tar.gz", []byte("bytes"))

		req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", auth)

		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"title":       "Anon",
			"description": "desc",
		}, "file", "anon.zip", []byte("bytes"))

		req := httptest.NewRequest(http.MethodPost, "/api/projects", body)
		req.Header.Set("Content-Type", contentType)

		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestGetProjectFeed(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s.db, "alice", "pw", false)

	createTestProject(t, s, user, "Approved One", true)
	createTestProject(t, s, user, "Still Pending", false)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var projects []models.Project
	json.NewDecoder(resp.Body).Decode(&projects)
	if len(projects) != 1 {
		t.Fatalf("expected 1 approved project in feed, got %d", len(projects))
	}
	if projects[0].Title != "Approved One" {
		t.Errorf("unexpected project in feed: %q", projects[0].Title)
	}
}

func TestGetProjectVisibility(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	stranger := createTestUser(t, s.db, "bob", "pw", false)
	admin := createTestUser(t, s.db, "admin", "pw", true)

	pending := createTestProject(t, s, owner, "Pending", false)
	path := fmt.Sprintf("/api/projects/%d", pending.ID)

	t.Run("anonymous cannot see pending", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("stranger cannot see pending", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t, s, stranger))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("owner sees pending", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t, s, owner))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("admin sees pending", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t, s, admin))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})
}

func TestDownloadProject(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	project := createTestProject(t, s, owner, "Downloadable", true)

	path := fmt.Sprintf("/api/projects/%d/download", project.ID)

	t.Run("streams the archive under its original name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		disposition := resp.Header.Get("Content-Disposition")
		if !strings.Contains(disposition, "archive.zip") {
			t.Errorf("expected original filename in disposition, got %q", disposition)
		}

		content, _ := io.ReadAll(resp.Body)
		if string(content) != "PK\x03\x04 zip bytes" {
			t.Errorf("unexpected archive content")
		}
	})

	t.Run("each download bumps the counter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if _, err := app.Test(req, -1); err != nil {
			t.Fatalf("request failed: %v", err)
		}

		got, err := s.projectRepo.GetByID(t.Context(), project.ID)
		if err != nil {
			t.Fatalf("reload project: %v", err)
		}
		if got.DownloadCount != 2 {
			t.Errorf("expected 2 downloads, got %d", got.DownloadCount)
		}
	})

	t.Run("pending project is hidden and not counted", func(t *testing.T) {
		pending := createTestProject(t, s, owner, "Hidden", false)
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/projects/%d/download", pending.ID), nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}

		got, _ := s.projectRepo.GetByID(t.Context(), pending.ID)
		if got.DownloadCount != 0 {
			t.Errorf("hidden download must not move the counter, got %d", got.DownloadCount)
		}
	})
}

func TestUpdateAndDeleteProject(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	stranger := createTestUser(t, s.db, "bob", "pw", false)
	project := createTestProject(t, s, owner, "Editable", true)

	path := fmt.Sprintf("/api/projects/%d", project.ID)

	t.Run("non-owner cannot edit", func(t *testing.T) {
		req := postJSON(t, path, map[string]string{"title": "Hijacked", "description": "nope"})
		req.Method = http.MethodPut
		req.Header.Set("Authorization", bearer(t, s, stranger))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("owner edits", func(t *testing.T) {
		req := postJSON(t, path, map[string]string{"title": "Renamed", "description": "new desc"})
		req.Method = http.MethodPut
		req.Header.Set("Authorization", bearer(t, s, owner))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var updated models.Project
		json.NewDecoder(resp.Body).Decode(&updated)
		if updated.Title != "Renamed" {
			t.Errorf("expected renamed title, got %q", updated.Title)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, path, nil)
		req.Header.Set("Authorization", bearer(t, s, owner))
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		if _, err := s.projectRepo.GetByID(t.Context(), project.ID); err == nil {
			t.Errorf("project should be gone")
		}
		if s.store.Exists(project.FilePath) {
			t.Errorf("archive should be removed from disk")
		}
	})
}

func TestProjectComments(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)
	commenter := createTestUser(t, s.db, "bob", "pw", false)
	project := createTestProject(t, s, owner, "Commented", true)

	commentsPath := fmt.Sprintf("/api/projects/%d/comments", project.ID)

	req := postJSON(t, commentsPath, map[string]string{"text": "nice work"})
	req.Header.Set("Authorization", bearer(t, s, commenter))
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var comment models.Comment
	json.NewDecoder(resp.Body).Decode(&comment)
	if comment.Username != "bob" {
		t.Errorf("expected author snapshot, got %q", comment.Username)
	}

	t.Run("listed in thread order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, commentsPath, nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var comments []models.Comment
		json.NewDecoder(resp.Body).Decode(&comments)
		if len(comments) != 1 {
			t.Errorf("expected 1 comment, got %d", len(comments))
		}
	})

	t.Run("anonymous cannot comment", func(t *testing.T) {
		req := postJSON(t, commentsPath, map[string]string{"text": "anon"})
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestSearchProjectsEndpoint(t *testing.T) {
	s, app := newTestServer(t)
	owner := createTestUser(t, s.db, "alice", "pw", false)

	popular := createTestProject(t, s, owner, "Popular Chess", true)
	createTestProject(t, s, owner, "Niche Chess", true)
	createTestProject(t, s, owner, "Pending Chess", false)
	for i := 0; i < 3; i++ {
		if err := s.projectRepo.IncrementDownloadCount(t.Context(), popular.ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/projects/search?q=chess", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var projects []models.Project
	json.NewDecoder(resp.Body).Decode(&projects)
	if len(projects) != 2 {
		t.Fatalf("expected 2 approved matches, got %d", len(projects))
	}
	if projects[0].ID != popular.ID {
		t.Errorf("expected most downloaded first")
	}
}
