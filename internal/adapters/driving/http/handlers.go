package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

const uploadField = "file"

// multipartOverhead is allowed on top of the upload limit for part headers
const multipartOverhead = 1 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"file not found"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// HealthResponse represents the health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse reports the state of each dependency
// @Description Readiness check response
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// RootResponse is returned by the API root
// @Description API banner
type RootResponse struct {
	Message         string            `json:"message" example:"DWG Dashboard API"`
	Version         string            `json:"version" example:"1.0.0"`
	AcceptedFormats []domain.FileType `json:"accepted_formats,omitempty"`
	CacheEnabled    bool              `json:"cache_enabled"`
}

// FileListResponse wraps the list of uploaded files
// @Description Uploaded files
type FileListResponse struct {
	Files []*domain.FileInfo `json:"files"`
}

// DeleteResponse confirms a deletion
// @Description Deletion result
type DeleteResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"File deleted successfully"`
}

// Health endpoints

// handleRoot godoc
// @Summary      API banner
// @Description  Returns the API name, version and accepted upload formats
// @Tags         Health
// @Produce      json
// @Success      200  {object}  RootResponse
// @Router       / [get]
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	resp := RootResponse{
		Message: "DWG Dashboard API",
		Version: s.version,
	}
	if s.runtime != nil {
		resp.AcceptedFormats = s.runtime.AcceptedFormats()
		resp.CacheEnabled = s.runtime.CacheAvailable()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /api/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings the metadata store, blob store and cache
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse  "A dependency is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := ReadyResponse{Status: "ready"}
	status := http.StatusOK
	if len(s.checks) > 0 {
		resp.Checks = make(map[string]string, len(s.checks))
	}
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("readiness check failed", "check", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwaggerDoc serves the registered OpenAPI document
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, doc)
}

// File endpoints

// handleUpload godoc
// @Summary      Upload a drawing
// @Description  Upload a DXF or DWG file as multipart form field "file"
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "DXF or DWG file"
// @Success      200   {object}  domain.UploadResponse
// @Failure      400   {object}  ErrorResponse  "Missing file or unsupported format"
// @Failure      413   {object}  ErrorResponse  "File too large"
// @Failure      500   {object}  ErrorResponse  "Internal server error"
// @Router       /api/upload [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			writeError(w, http.StatusBadRequest, "no file provided")
			return
		}
		if err != nil {
			s.writeServiceError(w, r, fmt.Errorf("%w: malformed multipart body: %v", domain.ErrInvalidInput, err))
			return
		}
		if part.FormName() != uploadField {
			part.Close()
			continue
		}

		info, err := s.drawingService.Upload(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, domain.UploadResponse{
			Success:  true,
			FileID:   info.ID,
			Filename: info.Filename,
			Message:  fmt.Sprintf("File uploaded successfully. ID: %s", info.ID),
		})
		return
	}
}

// handleListFiles godoc
// @Summary      List files
// @Description  List uploaded files, newest first
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  FileListResponse
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/files [get]
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.drawingService.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if files == nil {
		files = []*domain.FileInfo{}
	}

	writeJSON(w, http.StatusOK, FileListResponse{Files: files})
}

// handleDeleteFile godoc
// @Summary      Delete file
// @Description  Delete a file, its stored data and cached analyses
// @Tags         Files
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  DeleteResponse
// @Failure      404  {object}  ErrorResponse  "File not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/files/{id} [delete]
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.drawingService.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "File deleted successfully"})
}

// Analysis endpoints

// handleLayers godoc
// @Summary      Layer statistics
// @Description  Per-layer entity counts, line lengths and closed areas
// @Tags         Analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  domain.LayerReport
// @Failure      400  {object}  ErrorResponse  "File could not be parsed or converted"
// @Failure      404  {object}  ErrorResponse  "File not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/files/{id}/layers [get]
func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	report, err := s.drawingService.Layers(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleMeasurements godoc
// @Summary      Measurements
// @Description  Entity totals, bounding box, total length and area, and dimensions
// @Tags         Analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  domain.MeasurementReport
// @Failure      400  {object}  ErrorResponse  "File could not be parsed or converted"
// @Failure      404  {object}  ErrorResponse  "File not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/files/{id}/measurements [get]
func (s *Server) handleMeasurements(w http.ResponseWriter, r *http.Request) {
	report, err := s.drawingService.Measurements(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handlePreview godoc
// @Summary      Preview geometry
// @Description  Simplified 2D geometry for rendering, capped at 1000 entities
// @Tags         Analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  domain.PreviewReport
// @Failure      400  {object}  ErrorResponse  "File could not be parsed or converted"
// @Failure      404  {object}  ErrorResponse  "File not found"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /api/files/{id}/preview [get]
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	report, err := s.drawingService.Preview(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Helper functions

// statusFor maps a service error to an HTTP status and client message
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "file not found"
	case errors.Is(err, domain.ErrBlobMissing):
		return http.StatusNotFound, "file data not found"
	case errors.Is(err, domain.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "file too large"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "only .dxf and .dwg files are supported"
	case errors.Is(err, domain.ErrConversionUnavailable):
		return http.StatusBadRequest, "DWG conversion is not available; convert the file to DXF first"
	case errors.Is(err, domain.ErrConversionFailed):
		return http.StatusBadRequest, "failed to convert DWG file"
	case errors.Is(err, domain.ErrUnparseable):
		return http.StatusBadRequest, "failed to parse file"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.Canceled):
		return 499, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, message)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
