package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

var _ driven.FileStore = (*MockFileStore)(nil)

// MockFileStore is a mock implementation of FileStore for testing
type MockFileStore struct {
	mu    sync.RWMutex
	files map[string]*domain.FileInfo

	// SaveErr, when set, is returned by Save
	SaveErr error
}

// NewMockFileStore creates a new MockFileStore
func NewMockFileStore() *MockFileStore {
	return &MockFileStore{
		files: make(map[string]*domain.FileInfo),
	}
}

func (m *MockFileStore) Save(ctx context.Context, info *domain.FileInfo) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *info
	m.files[info.ID] = &copied
	return nil
}

func (m *MockFileStore) Get(ctx context.Context, id string) (*domain.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *info
	return &copied, nil
}

func (m *MockFileStore) List(ctx context.Context) ([]*domain.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.FileInfo, 0, len(m.files))
	for _, info := range m.files {
		copied := *info
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadTime.After(result[j].UploadTime)
	})
	return result, nil
}

func (m *MockFileStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.files, id)
	return nil
}
