package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// FileType identifies the on-disk format of an uploaded drawing
type FileType string

const (
	FileTypeDXF FileType = "DXF"
	FileTypeDWG FileType = "DWG"
)

// FileTypeFromName derives the file type from a filename extension.
// Returns false for unsupported extensions.
func FileTypeFromName(filename string) (FileType, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".dxf":
		return FileTypeDXF, true
	case ".dwg":
		return FileTypeDWG, true
	default:
		return "", false
	}
}

// Ext returns the lowercase extension for the file type, including the dot
func (t FileType) Ext() string {
	return "." + strings.ToLower(string(t))
}

// FileInfo is the metadata of an uploaded drawing
type FileInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadTime time.Time `json:"upload_time"`
	FileType   FileType  `json:"file_type"`
	Checksum   string    `json:"checksum,omitempty"` // hex BLAKE2b-256 of the uploaded bytes
}

// BlobKey is the storage key of the uploaded bytes, e.g. "<id>.dxf"
func (f *FileInfo) BlobKey() string {
	return f.ID + f.FileType.Ext()
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	Success  bool   `json:"success"`
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// LayerReport is the layer listing of one file
type LayerReport struct {
	FileID   string       `json:"file_id"`
	Filename string       `json:"filename"`
	Layers   []LayerStats `json:"layers"`
}

// MeasurementReport is the measurement summary of one file
type MeasurementReport struct {
	FileID       string        `json:"file_id"`
	Filename     string        `json:"filename"`
	Measurements *Measurements `json:"measurements"`
}

// PreviewReport is the preview geometry of one file
type PreviewReport struct {
	FileID      string          `json:"file_id"`
	Filename    string          `json:"filename"`
	BoundingBox BoundingBox     `json:"bounding_box"`
	Entities    []PreviewEntity `json:"entities"`
}
