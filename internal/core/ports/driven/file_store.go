package driven

import (
	"context"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// FileStore handles uploaded file metadata persistence (PostgreSQL or in-memory)
type FileStore interface {
	// Save creates or updates file metadata
	Save(ctx context.Context, info *domain.FileInfo) error

	// Get retrieves file metadata by ID
	Get(ctx context.Context, id string) (*domain.FileInfo, error)

	// List returns all files, most recently uploaded first
	List(ctx context.Context) ([]*domain.FileInfo, error)

	// Delete removes file metadata
	Delete(ctx context.Context, id string) error
}
