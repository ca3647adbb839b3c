package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/dxf"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/memory"
	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/dwg-dashboard/internal/core/services"
)

// Mock services for testing

type mockAuthService struct {
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) IssueToken(ctx context.Context, subject string, ttlSeconds int64) (string, error) {
	return "", errors.New("not implemented")
}

type mockDrawingService struct {
	uploadFn       func(ctx context.Context, filename string, r io.Reader) (*domain.FileInfo, error)
	listFn         func(ctx context.Context) ([]*domain.FileInfo, error)
	deleteFn       func(ctx context.Context, id string) error
	layersFn       func(ctx context.Context, id string) (*domain.LayerReport, error)
	measurementsFn func(ctx context.Context, id string) (*domain.MeasurementReport, error)
	previewFn      func(ctx context.Context, id string) (*domain.PreviewReport, error)
}

func (m *mockDrawingService) Upload(ctx context.Context, filename string, r io.Reader) (*domain.FileInfo, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, filename, r)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDrawingService) List(ctx context.Context) ([]*domain.FileInfo, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDrawingService) Get(ctx context.Context, id string) (*domain.FileInfo, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDrawingService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockDrawingService) Warm(ctx context.Context, id string) error {
	return nil
}

func (m *mockDrawingService) Layers(ctx context.Context, id string) (*domain.LayerReport, error) {
	if m.layersFn != nil {
		return m.layersFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDrawingService) Measurements(ctx context.Context, id string) (*domain.MeasurementReport, error) {
	if m.measurementsFn != nil {
		return m.measurementsFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDrawingService) Preview(ctx context.Context, id string) (*domain.PreviewReport, error) {
	if m.previewFn != nil {
		return m.previewFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// Helpers

func newTestServer(drawings *mockDrawingService, deps Deps) *Server {
	deps.DrawingService = drawings
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.CORSOrigins = []string{"*"}
	return NewServer(cfg, deps)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

// multipartBody builds an upload request body with the file under field
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("note", "ignored"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, uploadField, filename, content)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	return req
}

// Health endpoints

func TestHandleRoot(t *testing.T) {
	runtime := domain.NewRuntimeConfig("memory", "filesystem")
	runtime.SetCacheAvailable(true)
	s := newTestServer(&mockDrawingService{}, Deps{Runtime: runtime})

	rr := serve(s, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp RootResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "DWG Dashboard API" || resp.Version != "1.2.3" {
		t.Errorf("unexpected banner: %+v", resp)
	}
	if len(resp.AcceptedFormats) != 1 || resp.AcceptedFormats[0] != domain.FileTypeDXF {
		t.Errorf("expected only DXF accepted without a converter, got %v", resp.AcceptedFormats)
	}
	if !resp.CacheEnabled {
		t.Error("expected cache enabled")
	}
}

func TestHandleRoot_UnknownPath(t *testing.T) {
	s := newTestServer(&mockDrawingService{}, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&mockDrawingService{}, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/api/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected status healthy, got %s", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(&mockDrawingService{}, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/version", nil))

	var resp VersionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", resp.Version)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name         string
		checks       map[string]Pinger
		expectedCode int
		expected     map[string]string
	}{
		{
			name:         "no checks",
			expectedCode: http.StatusOK,
		},
		{
			name: "all healthy",
			checks: map[string]Pinger{
				"database": &mockPinger{},
				"blobs":    &mockPinger{},
			},
			expectedCode: http.StatusOK,
			expected:     map[string]string{"database": "ok", "blobs": "ok"},
		},
		{
			name: "cache down",
			checks: map[string]Pinger{
				"database": &mockPinger{},
				"cache":    &mockPinger{err: errors.New("connection refused")},
			},
			expectedCode: http.StatusServiceUnavailable,
			expected:     map[string]string{"database": "ok", "cache": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&mockDrawingService{}, Deps{Checks: tt.checks})

			rr := serve(s, httptest.NewRequest("GET", "/ready", nil))

			if rr.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rr.Code)
			}
			var resp ReadyResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			for name, state := range tt.expected {
				if resp.Checks[name] != state {
					t.Errorf("check %s: expected %s, got %s", name, state, resp.Checks[name])
				}
			}
		})
	}
}

func TestHandleMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("dwg_dashboard_uploads_total 1\n"))
	})
	s := newTestServer(&mockDrawingService{}, Deps{Metrics: metrics})

	rr := serve(s, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "dwg_dashboard_uploads_total") {
		t.Error("expected metrics output")
	}
}

func TestHandleSwaggerDoc_NotRegistered(t *testing.T) {
	s := newTestServer(&mockDrawingService{}, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/swagger/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 without registered docs, got %d", rr.Code)
	}
}

// File endpoints

func TestHandleUpload_Success(t *testing.T) {
	var gotName, gotBody string
	drawings := &mockDrawingService{
		uploadFn: func(ctx context.Context, filename string, r io.Reader) (*domain.FileInfo, error) {
			data, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			gotName, gotBody = filename, string(data)
			return &domain.FileInfo{ID: "file-1", Filename: filename, FileType: domain.FileTypeDXF}, nil
		},
	}
	s := newTestServer(drawings, Deps{})

	rr := serve(s, uploadRequest(t, "plan.dxf", []byte("0\nEOF\n")))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp domain.UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.FileID != "file-1" || resp.Filename != "plan.dxf" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !strings.Contains(resp.Message, "file-1") {
		t.Errorf("expected message to include the id, got %q", resp.Message)
	}
	if gotName != "plan.dxf" || gotBody != "0\nEOF\n" {
		t.Errorf("service received %q / %q", gotName, gotBody)
	}
}

func TestHandleUpload_MissingFile(t *testing.T) {
	s := newTestServer(&mockDrawingService{}, Deps{})

	body, contentType := multipartBody(t, "attachment", "plan.dxf", []byte("x"))
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rr := serve(s, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "no file provided" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleUpload_NotMultipart(t *testing.T) {
	s := newTestServer(&mockDrawingService{}, Deps{})

	req := httptest.NewRequest("POST", "/api/upload", strings.NewReader(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rr := serve(s, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleUpload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"unsupported format", domain.ErrUnsupportedFormat, http.StatusBadRequest},
		{"empty file", fmt.Errorf("%w: empty file", domain.ErrInvalidInput), http.StatusBadRequest},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"storage failure", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drawings := &mockDrawingService{
				uploadFn: func(ctx context.Context, filename string, r io.Reader) (*domain.FileInfo, error) {
					return nil, tt.err
				},
			}
			s := newTestServer(drawings, Deps{})

			rr := serve(s, uploadRequest(t, "plan.txt", []byte("x")))

			if rr.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rr.Code)
			}
		})
	}
}

func TestHandleListFiles(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	drawings := &mockDrawingService{
		listFn: func(ctx context.Context) ([]*domain.FileInfo, error) {
			return []*domain.FileInfo{
				{ID: "b", Filename: "b.dxf", FileType: domain.FileTypeDXF, UploadTime: now},
				{ID: "a", Filename: "a.dwg", FileType: domain.FileTypeDWG, UploadTime: now.Add(-time.Hour)},
			}, nil
		},
	}
	s := newTestServer(drawings, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/api/files", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp FileListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Files) != 2 || resp.Files[0].ID != "b" || resp.Files[1].FileType != domain.FileTypeDWG {
		t.Errorf("unexpected files: %+v", resp.Files)
	}
}

func TestHandleListFiles_Empty(t *testing.T) {
	drawings := &mockDrawingService{
		listFn: func(ctx context.Context) ([]*domain.FileInfo, error) { return nil, nil },
	}
	s := newTestServer(drawings, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/api/files", nil))

	if strings.TrimSpace(rr.Body.String()) != `{"files":[]}` {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
}

func TestHandleDeleteFile(t *testing.T) {
	var deleted string
	drawings := &mockDrawingService{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "missing" {
				return domain.ErrNotFound
			}
			deleted = id
			return nil
		},
	}
	s := newTestServer(drawings, Deps{})

	rr := serve(s, httptest.NewRequest("DELETE", "/api/files/file-1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if deleted != "file-1" {
		t.Errorf("expected file-1 deleted, got %q", deleted)
	}

	rr = serve(s, httptest.NewRequest("DELETE", "/api/files/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

// Analysis endpoints

func TestHandleAnalysis_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedMsg  string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "file not found"},
		{"blob missing", domain.ErrBlobMissing, http.StatusNotFound, "file data not found"},
		{"unparseable", fmt.Errorf("%w: bad group code", domain.ErrUnparseable), http.StatusBadRequest, "failed to parse file"},
		{"conversion unavailable", domain.ErrConversionUnavailable, http.StatusBadRequest, "DWG conversion is not available; convert the file to DXF first"},
		{"conversion failed", domain.ErrConversionFailed, http.StatusBadRequest, "failed to convert DWG file"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		for _, path := range []string{"layers", "measurements", "preview"} {
			t.Run(tt.name+"/"+path, func(t *testing.T) {
				drawings := &mockDrawingService{
					layersFn: func(ctx context.Context, id string) (*domain.LayerReport, error) {
						return nil, tt.err
					},
					measurementsFn: func(ctx context.Context, id string) (*domain.MeasurementReport, error) {
						return nil, tt.err
					},
					previewFn: func(ctx context.Context, id string) (*domain.PreviewReport, error) {
						return nil, tt.err
					},
				}
				s := newTestServer(drawings, Deps{})

				rr := serve(s, httptest.NewRequest("GET", "/api/files/f1/"+path, nil))

				if rr.Code != tt.expectedCode {
					t.Errorf("expected status %d, got %d", tt.expectedCode, rr.Code)
				}
				if msg := decodeError(t, rr); msg != tt.expectedMsg {
					t.Errorf("expected error %q, got %q", tt.expectedMsg, msg)
				}
			})
		}
	}
}

func TestHandleLayers(t *testing.T) {
	drawings := &mockDrawingService{
		layersFn: func(ctx context.Context, id string) (*domain.LayerReport, error) {
			return &domain.LayerReport{
				FileID:   id,
				Filename: "plan.dxf",
				Layers:   []domain.LayerStats{{Name: "A", Color: 1, ColorName: "Red", Visible: true, EntityCount: 1, LineLength: 5}},
			}, nil
		},
	}
	s := newTestServer(drawings, Deps{})

	rr := serve(s, httptest.NewRequest("GET", "/api/files/f1/layers", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp domain.LayerReport
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.FileID != "f1" || len(resp.Layers) != 1 || resp.Layers[0].LineLength != 5 {
		t.Errorf("unexpected report: %+v", resp)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	authService := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			if token == "good" {
				return &domain.AuthContext{Subject: "ui"}, nil
			}
			return nil, domain.ErrTokenInvalid
		},
	}
	drawings := &mockDrawingService{
		listFn: func(ctx context.Context) ([]*domain.FileInfo, error) { return nil, nil },
	}
	s := newTestServer(drawings, Deps{AuthService: authService})

	rr := serve(s, httptest.NewRequest("GET", "/api/files", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest("GET", "/api/files", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = serve(s, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200 with token, got %d", rr.Code)
	}

	// Health stays public
	rr = serve(s, httptest.NewRequest("GET", "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("expected public health check, got %d", rr.Code)
	}
}

func TestStatusFor_MaxBytesError(t *testing.T) {
	err := fmt.Errorf("failed to store file: %w", &http.MaxBytesError{Limit: 10})
	if status, _ := statusFor(err); status != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", status)
	}
}

// End to end through the real service, parser and in-memory stores

const lineDXF = "0\nSECTION\n2\nTABLES\n0\nTABLE\n2\nLAYER\n0\nLAYER\n2\nA\n62\n1\n0\nENDTAB\n0\nENDSEC\n" +
	"0\nSECTION\n2\nENTITIES\n0\nLINE\n8\nA\n10\n0\n20\n0\n30\n0\n11\n3\n21\n4\n31\n0\n0\nENDSEC\n0\nEOF\n"

func TestServer_UploadAndAnalyse(t *testing.T) {
	drawingService := services.NewDrawingService(services.DrawingServiceConfig{
		FileStore:      memory.NewFileStore(),
		BlobStore:      mocks.NewMockBlobStore(),
		Parser:         dxf.NewParser(nil),
		Cache:          mocks.NewMockAnalysisCache(),
		MaxUploadBytes: 1 << 20,
	})
	s := NewServer(DefaultConfig(), Deps{DrawingService: drawingService})

	rr := serve(s, uploadRequest(t, "line.dxf", []byte(lineDXF)))
	if rr.Code != http.StatusOK {
		t.Fatalf("upload: expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var up domain.UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&up); err != nil {
		t.Fatalf("failed to decode upload: %v", err)
	}

	rr = serve(s, httptest.NewRequest("GET", "/api/files/"+up.FileID+"/layers", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("layers: expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var layers domain.LayerReport
	if err := json.NewDecoder(rr.Body).Decode(&layers); err != nil {
		t.Fatalf("failed to decode layers: %v", err)
	}
	if len(layers.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(layers.Layers))
	}
	a := layers.Layers[0]
	if a.Name != "A" || a.EntityCount != 1 || a.LineLength != 5 || a.Color != 1 {
		t.Errorf("unexpected layer row: %+v", a)
	}

	rr = serve(s, httptest.NewRequest("GET", "/api/files/"+up.FileID+"/preview", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("preview: expected status 200, got %d", rr.Code)
	}
	var preview domain.PreviewReport
	if err := json.NewDecoder(rr.Body).Decode(&preview); err != nil {
		t.Fatalf("failed to decode preview: %v", err)
	}
	if len(preview.Entities) != 1 || preview.Entities[0].Type != domain.EntityLine {
		t.Errorf("unexpected preview: %+v", preview.Entities)
	}
	if preview.BoundingBox.Width != 3 || preview.BoundingBox.Height != 4 {
		t.Errorf("unexpected bounding box: %+v", preview.BoundingBox)
	}

	rr = serve(s, httptest.NewRequest("DELETE", "/api/files/"+up.FileID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: expected status 200, got %d", rr.Code)
	}
	rr = serve(s, httptest.NewRequest("GET", "/api/files/"+up.FileID+"/measurements", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestServer_UploadTooLarge(t *testing.T) {
	drawingService := services.NewDrawingService(services.DrawingServiceConfig{
		FileStore:      memory.NewFileStore(),
		BlobStore:      mocks.NewMockBlobStore(),
		Parser:         dxf.NewParser(nil),
		MaxUploadBytes: 16,
	})
	cfg := DefaultConfig()
	cfg.MaxUploadBytes = 16
	s := NewServer(cfg, Deps{DrawingService: drawingService})

	rr := serve(s, uploadRequest(t, "big.dxf", bytes.Repeat([]byte("x"), 64)))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rr.Code)
	}
}
