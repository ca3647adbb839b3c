package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/custodia-labs/dwg-dashboard/internal/analysis"
	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driving"
)

// Ensure drawingService implements DrawingService
var _ driving.DrawingService = (*drawingService)(nil)

// DefaultMaxUploadBytes is used when no upload limit is configured
const DefaultMaxUploadBytes = 100 << 20

const (
	kindLayers       = "layers"
	kindMeasurements = "measurements"
	kindPreview      = "preview"
)

// DrawingServiceConfig holds configuration for the drawing service
type DrawingServiceConfig struct {
	FileStore driven.FileStore
	BlobStore driven.BlobStore
	Parser    driven.DrawingParser

	// Optional
	Converter      driven.FormatConverter
	Cache          driven.AnalysisCache
	Queue          driven.TaskQueue // warms the cache after each upload
	Metrics        *Metrics
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// drawingService implements the DrawingService interface
type drawingService struct {
	files     driven.FileStore
	blobs     driven.BlobStore
	parser    driven.DrawingParser
	converter driven.FormatConverter
	cache     driven.AnalysisCache
	queue     driven.TaskQueue
	metrics   *Metrics
	maxUpload int64
	logger    *slog.Logger
}

// NewDrawingService creates a new DrawingService
func NewDrawingService(cfg DrawingServiceConfig) driving.DrawingService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	return &drawingService{
		files:     cfg.FileStore,
		blobs:     cfg.BlobStore,
		parser:    cfg.Parser,
		converter: cfg.Converter,
		cache:     cfg.Cache,
		queue:     cfg.Queue,
		metrics:   cfg.Metrics,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// Upload stores a new drawing and records its metadata
func (s *drawingService) Upload(ctx context.Context, filename string, r io.Reader) (*domain.FileInfo, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	fileType, ok := domain.FileTypeFromName(name)
	if !ok {
		s.metrics.upload("unknown", outcomeError)
		return nil, domain.ErrUnsupportedFormat
	}

	info := &domain.FileInfo{
		ID:         uuid.NewString(),
		Filename:   name,
		FileType:   fileType,
		UploadTime: time.Now().UTC(),
	}

	size, checksum, err := s.store(ctx, info.BlobKey(), r)
	if err != nil {
		s.discard(ctx, info.BlobKey())
		s.metrics.upload(string(fileType), outcomeError)
		return nil, err
	}
	info.FileSize = size
	info.Checksum = checksum

	if err := s.files.Save(ctx, info); err != nil {
		s.discard(ctx, info.BlobKey())
		s.metrics.upload(string(fileType), outcomeError)
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	s.metrics.upload(string(fileType), outcomeOK)
	s.logger.Info("file uploaded",
		"file_id", info.ID,
		"filename", info.Filename,
		"file_type", info.FileType,
		"size", info.FileSize,
	)
	s.scheduleWarm(ctx, info.ID)
	return info, nil
}

// scheduleWarm queues background analysis of a new file. Failures only
// cost the first reader a cache miss.
func (s *drawingService) scheduleWarm(ctx context.Context, id string) {
	if s.queue == nil || s.cache == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, domain.NewWarmAnalysisTask(id)); err != nil {
		s.logger.Warn("failed to queue analysis warm-up", "file_id", id, "error", err)
	}
}

// store streams r into the blob store while hashing it. At most maxUpload+1
// bytes are read so an oversized upload is detected without buffering it.
func (s *drawingService) store(ctx context.Context, key string, r io.Reader) (int64, string, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return 0, "", err
	}

	limited := io.LimitReader(r, s.maxUpload+1)
	size, err := s.blobs.Put(ctx, key, io.TeeReader(limited, hasher))
	if err != nil {
		return 0, "", fmt.Errorf("failed to store file: %w", err)
	}
	if size > s.maxUpload {
		return 0, "", domain.ErrFileTooLarge
	}
	if size == 0 {
		return 0, "", fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}

	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}

func (s *drawingService) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove partial upload", "key", key, "error", err)
	}
}

// List returns all uploaded files
func (s *drawingService) List(ctx context.Context) ([]*domain.FileInfo, error) {
	return s.files.List(ctx)
}

// Get retrieves file metadata by ID
func (s *drawingService) Get(ctx context.Context, id string) (*domain.FileInfo, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.files.Get(ctx, id)
}

// Delete removes a file, its metadata and any cached analyses
func (s *drawingService) Delete(ctx context.Context, id string) error {
	info, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, info.BlobKey()); err != nil {
		return fmt.Errorf("failed to delete file data: %w", err)
	}
	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeletePrefix(ctx, cachePrefix(id)); err != nil {
			s.logger.Warn("failed to invalidate cached analyses", "file_id", id, "error", err)
		}
	}

	s.logger.Info("file deleted", "file_id", id)
	return nil
}

// Layers returns per-layer statistics for a file
func (s *drawingService) Layers(ctx context.Context, id string) (*domain.LayerReport, error) {
	info, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	layers, err := analyse(ctx, s, info, kindLayers, analysis.AggregateLayers)
	if err != nil {
		return nil, err
	}

	return &domain.LayerReport{
		FileID:   info.ID,
		Filename: info.Filename,
		Layers:   layers,
	}, nil
}

// Measurements returns aggregate measurements for a file
func (s *drawingService) Measurements(ctx context.Context, id string) (*domain.MeasurementReport, error) {
	info, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m, err := analyse(ctx, s, info, kindMeasurements, analysis.ExtractMeasurements)
	if err != nil {
		return nil, err
	}

	return &domain.MeasurementReport{
		FileID:       info.ID,
		Filename:     info.Filename,
		Measurements: m,
	}, nil
}

// Preview returns 2D preview geometry for a file
func (s *drawingService) Preview(ctx context.Context, id string) (*domain.PreviewReport, error) {
	info, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	preview, err := analyse(ctx, s, info, kindPreview, analysis.ExtractPreview)
	if err != nil {
		return nil, err
	}

	return &domain.PreviewReport{
		FileID:      info.ID,
		Filename:    info.Filename,
		BoundingBox: preview.BoundingBox,
		Entities:    preview.Entities,
	}, nil
}

// Warm computes and caches every analysis of a file
func (s *drawingService) Warm(ctx context.Context, id string) error {
	if _, err := s.Layers(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("skipping warm-up of deleted file", "file_id", id)
			return nil
		}
		return err
	}
	if _, err := s.Measurements(ctx, id); err != nil {
		return err
	}
	_, err := s.Preview(ctx, id)
	return err
}

// analyse serves one analysis of a file, from the cache when possible.
// Cache failures are logged and otherwise ignored.
func analyse[T any](
	ctx context.Context,
	s *drawingService,
	info *domain.FileInfo,
	kind string,
	compute func(*domain.Drawing) (T, error),
) (T, error) {
	var zero T
	started := time.Now()
	key := cacheKey(info, kind)

	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("analysis cache read failed", "key", key, "error", err)
		}
		if ok {
			var result T
			if err := json.Unmarshal(data, &result); err == nil {
				s.metrics.analysis(kind, outcomeCacheHit, started)
				return result, nil
			}
			s.logger.Warn("discarding corrupt cache entry", "key", key)
		}
	}

	drawing, err := s.load(ctx, info)
	if err != nil {
		s.metrics.analysis(kind, outcomeError, started)
		return zero, err
	}

	result, err := compute(drawing)
	if err != nil {
		s.metrics.analysis(kind, outcomeError, started)
		return zero, err
	}
	s.metrics.analysis(kind, outcomeOK, started)

	if s.cache != nil {
		if data, err := json.Marshal(result); err != nil {
			s.logger.Warn("failed to encode analysis", "kind", kind, "error", err)
		} else if err := s.cache.Set(ctx, key, data); err != nil {
			s.logger.Warn("analysis cache write failed", "key", key, "error", err)
		}
	}

	s.logger.Debug("analysis computed",
		"file_id", info.ID,
		"kind", kind,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

// load reads and parses the stored bytes of a file. DWG files are
// converted to DXF first.
func (s *drawingService) load(ctx context.Context, info *domain.FileInfo) (*domain.Drawing, error) {
	rc, err := s.blobs.Open(ctx, info.BlobKey())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrBlobMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file data: %w", err)
	}
	defer rc.Close()

	if info.FileType == domain.FileTypeDWG {
		return s.loadDWG(ctx, info, rc)
	}
	return s.parse(ctx, info, rc)
}

func (s *drawingService) loadDWG(ctx context.Context, info *domain.FileInfo, rc io.Reader) (*domain.Drawing, error) {
	if s.converter == nil {
		return nil, domain.ErrConversionUnavailable
	}

	dwgPath, cleanup, err := s.localCopy(info, rc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dxfPath, err := s.converter.Convert(ctx, dwgPath)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(filepath.Dir(dxfPath))

	f, err := os.Open(dxfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	defer f.Close()

	return s.parse(ctx, info, f)
}

// localCopy returns a filesystem path holding the blob, writing a temporary
// copy when the blob store is not on local disk.
func (s *drawingService) localCopy(info *domain.FileInfo, rc io.Reader) (string, func(), error) {
	if lp, ok := s.blobs.(driven.LocalPather); ok {
		if path, ok := lp.LocalPath(info.BlobKey()); ok {
			return path, func() {}, nil
		}
	}

	tmp, err := os.CreateTemp("", "dwg-*"+info.FileType.Ext())
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

func (s *drawingService) parse(ctx context.Context, info *domain.FileInfo, r io.Reader) (*domain.Drawing, error) {
	drawing, err := s.parser.Parse(ctx, r)
	if err != nil {
		s.logger.Warn("failed to parse drawing", "file_id", info.ID, "error", err)
		return nil, err
	}
	return drawing, nil
}

func cachePrefix(id string) string {
	return "analysis:" + id + ":"
}

func cacheKey(info *domain.FileInfo, kind string) string {
	return cachePrefix(info.ID) + info.Checksum + ":" + kind
}
