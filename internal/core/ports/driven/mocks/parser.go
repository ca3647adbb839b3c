package mocks

import (
	"context"
	"io"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

var (
	_ driven.DrawingParser   = (*MockParser)(nil)
	_ driven.FormatConverter = (*MockConverter)(nil)
)

// MockParser is a mock implementation of DrawingParser for testing
type MockParser struct {
	ParseFn func(ctx context.Context, r io.Reader) (*domain.Drawing, error)

	// Calls counts Parse invocations
	Calls int
}

// NewMockParser creates a MockParser that returns an empty drawing
func NewMockParser() *MockParser {
	return &MockParser{}
}

func (m *MockParser) Parse(ctx context.Context, r io.Reader) (*domain.Drawing, error) {
	m.Calls++
	if m.ParseFn != nil {
		return m.ParseFn(ctx, r)
	}
	return &domain.Drawing{}, nil
}

// MockConverter is a mock implementation of FormatConverter for testing
type MockConverter struct {
	ConvertFn func(ctx context.Context, dwgPath string) (string, error)
}

// NewMockConverter creates a MockConverter that reports no converter installed
func NewMockConverter() *MockConverter {
	return &MockConverter{}
}

func (m *MockConverter) Convert(ctx context.Context, dwgPath string) (string, error) {
	if m.ConvertFn != nil {
		return m.ConvertFn(ctx, dwgPath)
	}
	return "", domain.ErrConversionUnavailable
}
