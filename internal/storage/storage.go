package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AssetStore is the flat output directory both jobs write image files into
type AssetStore struct {
	dir string
}

// New returns a store rooted at dir, creating the directory if needed
func New(dir string) (*AssetStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &AssetStore{dir: dir}, nil
}

func (s *AssetStore) Dir() string {
	return s.dir
}

// Path returns the on-disk location for filename
func (s *AssetStore) Path(filename string) (string, error) {
	clean, err := sanitizeName(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, clean), nil
}

// Exists reports whether filename is already present
func (s *AssetStore) Exists(filename string) (bool, error) {
	path, err := s.Path(filename)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}

// Write stores data under filename, replacing any previous content
func (s *AssetStore) Write(filename string, data []byte) (string, error) {
	path, err := s.Path(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// sanitizeName keeps filenames inside the store directory.
func sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("storage: filename is required")
	}
	name = strings.ReplaceAll(name, "\\", "/")
	cleaned := filepath.Clean(strings.TrimLeft(name, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(filepath.ToSlash(cleaned), "../") {
		return "", fmt.Errorf("storage: invalid filename %q", name)
	}
	return cleaned, nil
}
