package main

// @title           DWG Dashboard API
// @version         1.0
// @description     Upload DXF and DWG drawings and inspect their layers, measurements and preview geometry.

// @contact.name   DWG Dashboard
// @contact.url    https://github.com/custodia-labs/dwg-dashboard/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/custodia-labs/dwg-dashboard/docs"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/auth"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/blob"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/dxf"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/memory"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/oda"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/postgres"
	redisqueue "github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/queue/redis"
	redisadapter "github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/redis"
	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driving/http"
	"github.com/custodia-labs/dwg-dashboard/internal/analysis"
	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driving"
	"github.com/custodia-labs/dwg-dashboard/internal/core/services"
	"github.com/custodia-labs/dwg-dashboard/internal/worker"
)

var version = "dev"

func main() {
	log.Printf("dwg-dashboard %s starting", version)

	// Configuration from environment
	port := getEnvInt("PORT", 8000)
	databaseURL := getEnv("DATABASE_URL", "")
	redisURL := getEnv("REDIS_URL", "")
	uploadDir := getEnv("UPLOAD_DIR", "/tmp/uploads")
	jwtSecret := getEnv("JWT_SECRET", "")
	corsOrigins := splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	maxUpload := int64(getEnvInt("MAX_UPLOAD_BYTES", services.DefaultMaxUploadBytes))
	cacheTTL := time.Duration(getEnvInt("CACHE_TTL_SEC", 86400)) * time.Second
	workerConcurrency := getEnvInt("WORKER_CONCURRENCY", 2)

	logger := newLogger(getEnv("LOG_LEVEL", "info"), getEnvBool("LOG_JSON", false))
	slog.SetDefault(logger)
	analysis.SetLogger(logger.With("component", "analysis"))

	ctx := context.Background()
	checks := make(map[string]http.Pinger)

	// ===== File metadata store (PostgreSQL if configured, otherwise memory) =====
	var fileStore driven.FileStore
	fileStoreBackend := "memory"
	if databaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		dbConfig := postgres.Config{
			URL:             databaseURL,
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300)) * time.Second,
			ConnMaxIdleTime: time.Duration(getEnvInt("DB_CONN_MAX_IDLE_SEC", 60)) * time.Second,
		}
		db, err := postgres.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("PostgreSQL connected and schema initialized")

		fileStore = postgres.NewFileStore(db)
		fileStoreBackend = "postgres"
		checks["database"] = db
	} else {
		log.Println("DATABASE_URL not set, file metadata is kept in memory")
		fileStore = memory.NewFileStore()
	}

	// ===== Blob store (MinIO if configured, otherwise local directory) =====
	var blobStore driven.BlobStore
	blobBackend := "filesystem"
	if endpoint := getEnv("MINIO_ENDPOINT", ""); endpoint != "" {
		log.Println("Connecting to MinIO...")
		store, err := blob.NewMinio(ctx, blob.MinioConfig{
			Endpoint:  endpoint,
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "dwg-uploads"),
			Region:    getEnv("MINIO_REGION", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		})
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		blobStore = store
		blobBackend = "minio"
		checks["blobs"] = store
		log.Println("MinIO connected")
	} else {
		store, err := blob.NewFileSystem(uploadDir)
		if err != nil {
			log.Fatalf("Failed to prepare upload directory: %v", err)
		}
		blobStore = store
		checks["blobs"] = store
		log.Printf("Storing uploads in %s", uploadDir)
	}

	runtimeConfig := domain.NewRuntimeConfig(fileStoreBackend, blobBackend)

	// ===== Analysis cache (optional) =====
	var cache driven.AnalysisCache
	var taskQueue driven.TaskQueue
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		analysisCache := redisadapter.NewAnalysisCache(redisClient, cacheTTL)
		cache = analysisCache
		checks["cache"] = analysisCache
		runtimeConfig.SetCacheAvailable(true)
		log.Println("Redis connected, analysis cache enabled")

		if workerConcurrency > 0 {
			hostname, _ := os.Hostname()
			queue, err := redisqueue.NewQueue(ctx, redisClient, fmt.Sprintf("%s-%d", hostname, os.Getpid()))
			if err != nil {
				log.Fatalf("Failed to create task queue: %v", err)
			}
			taskQueue = queue
			checks["queue"] = queue
		}
	}

	// ===== DWG converter (optional) =====
	var converter driven.FormatConverter
	odaConverter, err := oda.NewConverter(oda.Config{Logger: logger})
	switch {
	case err == nil:
		converter = odaConverter
		runtimeConfig.SetConversionAvailable(true)
		log.Printf("DWG conversion enabled using %s", odaConverter.Binary())
	case errors.Is(err, domain.ErrConversionUnavailable):
		log.Println("ODA File Converter not found, DWG analysis disabled")
	default:
		log.Fatalf("Failed to set up DWG converter: %v", err)
	}

	// ===== Metrics =====
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	// Services (core business logic)
	drawingService := services.NewDrawingService(services.DrawingServiceConfig{
		FileStore:      fileStore,
		BlobStore:      blobStore,
		Parser:         dxf.NewParser(logger.With("component", "dxf")),
		Converter:      converter,
		Cache:          cache,
		Queue:          taskQueue,
		Metrics:        metrics,
		MaxUploadBytes: maxUpload,
		Logger:         logger,
	})

	// ===== Background analysis (requires Redis) =====
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	if taskQueue != nil {
		w := worker.NewWorker(worker.WorkerConfig{
			TaskQueue:   taskQueue,
			Warmer:      drawingService,
			Logger:      logger.With("component", "worker"),
			Concurrency: workerConcurrency,
		})
		w.Start(workerCtx)
		defer func() {
			stopWorkers()
			w.Stop()
		}()
		log.Printf("Analysis worker started with %d goroutines", workerConcurrency)
	}

	var authService driving.AuthService
	if jwtSecret != "" {
		authService = services.NewAuthService(auth.NewAdapter(jwtSecret))
		log.Println("Bearer token authentication enabled")
	}

	// Log startup configuration
	log.Printf("Runtime config: file_store=%s, blobs=%s, cache=%t, dwg=%t",
		runtimeConfig.FileStoreBackend,
		runtimeConfig.BlobBackend,
		runtimeConfig.CacheAvailable(),
		runtimeConfig.ConversionAvailable())

	cfg := http.Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           port,
		Version:        version,
		CORSOrigins:    corsOrigins,
		MaxUploadBytes: maxUpload,
	}

	server := http.NewServer(cfg, http.Deps{
		DrawingService: drawingService,
		AuthService:    authService,
		Runtime:        runtimeConfig,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Checks:         checks,
		Logger:         logger,
	})

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// Helper functions

func newLogger(level string, asJSON bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
