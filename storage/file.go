package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hackfolio/catalog-backend/interfaces"
)

// FileStore implements a content store on the local file system. Blobs are
// written under a single directory keyed by their hex SHA-256 address.
type FileStore struct {
	baseDir     string
	log         *slog.Logger
	locationURI string
}

// NewFileStore creates a new file content store using the specified base
// directory, creating it if it doesn't exist.
func NewFileStore(baseDir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, "blobs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create blobs directory: %w", err)
	}

	uri := fmt.Sprintf("file://%s", baseDir)

	return &FileStore{
		baseDir:     baseDir,
		log:         log,
		locationURI: uri,
	}, nil
}

// Put saves data to the file system and returns its content address.
func (s *FileStore) Put(ctx context.Context, data []byte) (interfaces.Address, error) {
	addr := interfaces.ComputeAddress(data)
	filePath := s.blobPath(addr)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return addr, fmt.Errorf("%w: failed to write file: %v", interfaces.ErrWriteFailed, err)
	}

	s.log.Debug("Stored content in file",
		slog.String("path", filePath),
		slog.String("address", addr.String()))

	return addr, nil
}

// Get retrieves data from the file system by its content address.
// Returns ErrBlobNotFound if the file doesn't exist.
func (s *FileStore) Get(ctx context.Context, addr interfaces.Address) ([]byte, error) {
	filePath := s.blobPath(addr)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, interfaces.ErrBlobNotFound
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	s.log.Debug("Fetched content from file",
		slog.String("path", filePath),
		slog.Int("size", len(data)))

	return data, nil
}

// Available checks if the store is accessible by verifying the base directory
// exists.
func (s *FileStore) Available(ctx context.Context) bool {
	_, err := os.Stat(s.baseDir)
	if err != nil {
		s.log.Debug("File store unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this content store.
func (s *FileStore) Name() string {
	return fmt.Sprintf("file-%s", filepath.Base(s.baseDir))
}

// LocationURI returns the URI that identifies this content store.
func (s *FileStore) LocationURI() string {
	return s.locationURI
}

func (s *FileStore) blobPath(addr interfaces.Address) string {
	return filepath.Join(s.baseDir, "blobs", addr.String())
}
