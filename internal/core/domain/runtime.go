package domain

import "sync"

// RuntimeConfig tracks which backends are in use and which optional
// capabilities are available. Backends are fixed at startup; capability
// flags may change while running (e.g. Redis going away).
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	FileStoreBackend string // "postgres" or "memory"
	BlobBackend      string // "filesystem" or "minio"

	// Dynamic capability flags
	cacheAvailable      bool
	conversionAvailable bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(fileStoreBackend, blobBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		FileStoreBackend: fileStoreBackend,
		BlobBackend:      blobBackend,
	}
}

// CacheAvailable returns whether the analysis cache is in use
func (c *RuntimeConfig) CacheAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cacheAvailable
}

// ConversionAvailable returns whether DWG files can be converted
func (c *RuntimeConfig) ConversionAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conversionAvailable
}

// SetCacheAvailable updates the cache availability flag
func (c *RuntimeConfig) SetCacheAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheAvailable = available
}

// SetConversionAvailable updates the DWG conversion availability flag
func (c *RuntimeConfig) SetConversionAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversionAvailable = available
}

// AcceptedFormats lists the upload formats that can currently be analysed
func (c *RuntimeConfig) AcceptedFormats() []FileType {
	if c.ConversionAvailable() {
		return []FileType{FileTypeDXF, FileTypeDWG}
	}
	return []FileType{FileTypeDXF}
}
