package driven

import (
	"context"
	"io"
)

// BlobStore holds the raw bytes of uploaded drawings (filesystem or object storage)
type BlobStore interface {
	// Put writes the content under key and returns the number of bytes stored
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader for key. Returns domain.ErrNotFound if absent.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LocalPather is implemented by blob stores that keep blobs on the local
// filesystem, which lets the format converter work on them in place.
type LocalPather interface {
	LocalPath(key string) (string, bool)
}
