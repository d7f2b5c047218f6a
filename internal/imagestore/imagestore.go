// Package imagestore persists listing images and returns the URL they are
// served under.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidName is returned when a name or folder would escape the root.
var ErrInvalidName = errors.New("invalid object name")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Store is the object-storage port used by the pipeline.
type Store interface {
	Put(ctx context.Context, data []byte, name, folder string) (string, error)
}

// LocalStore writes objects below a directory and serves them from baseURL.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating image dir %s: %w", root, err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes data to folder/name and returns its public URL. Existing
// objects are overwritten.
func (s *LocalStore) Put(ctx context.Context, data []byte, name, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, folder = Sanitize(name), Sanitize(folder)
	if name == "" || folder == "" {
		return "", ErrInvalidName
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating folder %s: %w", folder, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("storing %s: %w", name, err)
	}

	return s.baseURL + "/" + url.PathEscape(folder) + "/" + url.PathEscape(name), nil
}

// Sanitize reduces s to a single safe path segment.
func Sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(filepath.Base(s), "_")
	s = strings.Trim(s, "._")
	return s
}
