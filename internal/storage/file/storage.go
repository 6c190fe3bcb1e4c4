package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage is the local filesystem backend. Saves are atomic: data is
// written to a temporary file in the target directory and renamed into
// place, so a failed save never leaves a partial output file.
type Storage struct{}

// NewStorage creates a local filesystem storage backend.
func NewStorage() *Storage {
	return &Storage{}
}

// Save writes the reader's contents to path, creating parent
// directories as needed. Returns the final path.
func (s *Storage) Save(_ context.Context, path string, src io.Reader) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	return path, nil
}

// Load opens the file at path and returns a reader.
func (s *Storage) Load(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes the file at path.
func (s *Storage) Delete(_ context.Context, path string) error {
	return os.Remove(path)
}
