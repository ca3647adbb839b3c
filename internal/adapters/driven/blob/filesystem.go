// Package blob stores uploaded drawing bytes on local disk or in S3-compatible object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.BlobStore   = (*FileSystem)(nil)
	_ driven.LocalPather = (*FileSystem)(nil)
)

// FileSystem stores each blob as a file named after its key in one directory
type FileSystem struct {
	dir string
}

// NewFileSystem creates the directory if needed and returns a store rooted there
func NewFileSystem(dir string) (*FileSystem, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileSystem{dir: dir}, nil
}

// Put writes r to a temporary file and renames it into place once complete
func (s *FileSystem) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, err
	}
	return n, nil
}

// Open returns a reader for key. Returns domain.ErrNotFound if absent.
func (s *FileSystem) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileSystem) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// LocalPath returns the file holding key and whether it exists
func (s *FileSystem) LocalPath(key string) (string, bool) {
	path, err := s.path(key)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Ping checks that the directory is still there
func (s *FileSystem) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// path maps key to a file inside dir. Keys are flat names; anything that
// could escape the directory is rejected.
func (s *FileSystem) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: blob key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key), nil
}

// ctxReader stops a copy once the context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
