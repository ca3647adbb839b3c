package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string
	maxUpload  int64
	logger     *slog.Logger

	// Services
	drawingService driving.DrawingService
	authService    driving.AuthService // nil disables authentication

	// Infrastructure
	runtime *domain.RuntimeConfig
	metrics http.Handler
	checks  map[string]Pinger
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	CORSOrigins    []string
	MaxUploadBytes int64
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		Version:        "dev",
		CORSOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes: 100 << 20,
	}
}

// Deps groups the collaborators of the server
type Deps struct {
	DrawingService driving.DrawingService
	AuthService    driving.AuthService   // optional
	Runtime        *domain.RuntimeConfig // optional
	Metrics        http.Handler          // optional, served on /metrics
	Checks         map[string]Pinger     // readiness checks by name
	Logger         *slog.Logger          // optional
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultConfig().MaxUploadBytes
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		maxUpload:      maxUpload,
		logger:         logger,
		drawingService: deps.DrawingService,
		authService:    deps.AuthService,
		runtime:        deps.Runtime,
		metrics:        deps.Metrics,
		checks:         deps.Checks,
	}

	s.setupRoutes()

	s.handler = NewRecoveryMiddleware(logger).Handler(
		NewLoggingMiddleware(logger).Handler(
			NewCORSMiddleware(cfg.CORSOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler including middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	protect := func(h http.HandlerFunc) http.Handler { return h }
	if s.authService != nil {
		authMiddleware := NewAuthMiddleware(s.authService)
		protect = func(h http.HandlerFunc) http.Handler {
			return authMiddleware.Authenticate(h)
		}
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /{$}", s.handleRoot)
	s.router.HandleFunc("GET /api/health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics)
	}
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	// File endpoints
	s.router.Handle("POST /api/upload", protect(s.handleUpload))
	s.router.Handle("GET /api/files", protect(s.handleListFiles))
	s.router.Handle("DELETE /api/files/{id}", protect(s.handleDeleteFile))

	// Analysis endpoints
	s.router.Handle("GET /api/files/{id}/layers", protect(s.handleLayers))
	s.router.Handle("GET /api/files/{id}/measurements", protect(s.handleMeasurements))
	s.router.Handle("GET /api/files/{id}/preview", protect(s.handlePreview))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
