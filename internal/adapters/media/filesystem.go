// Package media stores uploaded cover images and hands back stable URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/casdoor/oss"
	"github.com/casdoor/oss/filesystem"
	"github.com/google/uuid"

	"github.com/blogify/api/internal/core/ports"
)

// FileStore keeps uploads on the local filesystem behind the casdoor/oss
// storage interface, so a bucket-backed implementation can be swapped in
// without touching callers.
type FileStore struct {
	storage oss.StorageInterface
	baseURL string
}

func NewFileStore(dir, baseURL string) ports.MediaStore {
	return &FileStore{
		storage: filesystem.New(dir),
		baseURL: baseURL,
	}
}

// Put stores the file under a collision-free name and returns its URL.
func (s *FileStore) Put(_ context.Context, filename string, content io.Reader) (string, error) {
	name := uuid.NewString() + filepath.Ext(filename)

	if _, err := s.storage.Put(name, content); err != nil {
		return "", fmt.Errorf("failed to store upload %q: %w", filename, err)
	}
	return s.baseURL + "/" + name, nil
}
