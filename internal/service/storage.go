package service

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"projecthub/internal/models"
)

const (
	projectsDir      = "projects"
	profileImagesDir = "profile-images"
)

// FileStore writes and removes uploaded files under a single root directory.
// Paths stored in the database are relative to the root so the root can move
// between environments.
type FileStore struct {
	root string
}

// NewFileStore returns a FileStore rooted at the given directory.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Save writes content to subdir/name under the store root and returns the
// relative path to persist.
func (f *FileStore) Save(subdir, name string, content []byte) (string, error) {
	rel := filepath.ToSlash(filepath.Join(subdir, name))
	abs := filepath.Join(f.root, subdir, name)
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, content, 0o600); err != nil {
		return "", models.NewInternalError(err)
	}
	return rel, nil
}

// Abs resolves a stored relative path to an absolute path on disk.
func (f *FileStore) Abs(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

// Exists reports whether the stored file is present on disk.
func (f *FileStore) Exists(rel string) bool {
	if rel == "" {
		return false
	}
	_, err := os.Stat(f.Abs(rel))
	return err == nil
}

// Remove deletes the stored file. A missing file is not an error; rows can
// outlive their files after manual cleanup and deletion must still succeed.
func (f *FileStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(f.Abs(rel)); err != nil && !os.IsNotExist(err) {
		return models.NewInternalError(err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// sanitizeFilename strips path components and replaces characters that are
// unsafe in stored filenames.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := unsafeFilenameChars.ReplaceAllString(base, "_")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "upload"
	}
	return cleaned
}
