// Package memory provides process-local stores used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*FileStore)(nil)

// FileStore keeps file metadata in memory. Contents are lost on restart.
type FileStore struct {
	mu    sync.RWMutex
	files map[string]domain.FileInfo
}

// NewFileStore creates an empty FileStore
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]domain.FileInfo)}
}

// Save creates or updates file metadata
func (s *FileStore) Save(ctx context.Context, info *domain.FileInfo) error {
	if info == nil || info.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[info.ID] = *info
	return nil
}

// Get retrieves file metadata by ID
func (s *FileStore) Get(ctx context.Context, id string) (*domain.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &info, nil
}

// List returns all files, most recently uploaded first. Ties are broken by
// ID so the order is stable.
func (s *FileStore) List(ctx context.Context) ([]*domain.FileInfo, error) {
	s.mu.RLock()
	files := make([]*domain.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		files = append(files, &info)
	}
	s.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool {
		if !files[i].UploadTime.Equal(files[j].UploadTime) {
			return files[i].UploadTime.After(files[j].UploadTime)
		}
		return files[i].ID < files[j].ID
	})
	return files, nil
}

// Delete removes file metadata
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.files, id)
	return nil
}
