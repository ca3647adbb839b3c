package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

var _ driven.AnalysisCache = (*MockAnalysisCache)(nil)

// MockAnalysisCache is an in-memory AnalysisCache for testing
type MockAnalysisCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	// Hits counts successful Get calls
	Hits int
}

// NewMockAnalysisCache creates a new MockAnalysisCache
func NewMockAnalysisCache() *MockAnalysisCache {
	return &MockAnalysisCache{
		entries: make(map[string][]byte),
	}
}

func (m *MockAnalysisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if ok {
		m.Hits++
	}
	return v, ok, nil
}

func (m *MockAnalysisCache) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockAnalysisCache) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

// Keys returns the number of cached entries
func (m *MockAnalysisCache) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
