package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// DrawingParser reads a DXF stream into the drawing model
type DrawingParser interface {
	// Parse reads a complete DXF document.
	// Returns an error wrapping domain.ErrUnparseable when the input is not a usable drawing.
	Parse(ctx context.Context, r io.Reader) (*domain.Drawing, error)
}

// FormatConverter transcodes proprietary DWG files into DXF
type FormatConverter interface {
	// Convert converts the DWG file at dwgPath and returns the path of the DXF it wrote.
	// The DXF is written into a fresh temporary directory owned by the caller.
	// Returns domain.ErrConversionUnavailable when no converter is installed.
	Convert(ctx context.Context, dwgPath string) (string, error)
}
