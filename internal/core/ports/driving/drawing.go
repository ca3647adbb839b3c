package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// DrawingService manages uploaded drawings and serves their analyses
type DrawingService interface {
	// Upload stores a new DXF or DWG file
	Upload(ctx context.Context, filename string, r io.Reader) (*domain.FileInfo, error)

	// List returns all uploaded files
	List(ctx context.Context) ([]*domain.FileInfo, error)

	// Get retrieves file metadata by ID
	Get(ctx context.Context, id string) (*domain.FileInfo, error)

	// Delete removes a file, its metadata and any cached analyses
	Delete(ctx context.Context, id string) error

	// Layers returns per-layer statistics for a file
	Layers(ctx context.Context, id string) (*domain.LayerReport, error)

	// Measurements returns aggregate measurements for a file
	Measurements(ctx context.Context, id string) (*domain.MeasurementReport, error)

	// Preview returns 2D preview geometry for a file
	Preview(ctx context.Context, id string) (*domain.PreviewReport, error)

	// Warm computes every analysis of a file so later reads hit the cache.
	// A file deleted in the meantime is not an error.
	Warm(ctx context.Context, id string) error
}
