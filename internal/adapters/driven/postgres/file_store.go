package postgres

import (
	"context"
	"database/sql"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*FileStore)(nil)

// FileStore implements driven.FileStore using PostgreSQL
type FileStore struct {
	db *DB
}

// NewFileStore creates a new FileStore
func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db}
}

// Save creates or updates file metadata
func (s *FileStore) Save(ctx context.Context, info *domain.FileInfo) error {
	query := `
		INSERT INTO files (id, filename, file_size, file_type, checksum, upload_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			file_size = EXCLUDED.file_size,
			file_type = EXCLUDED.file_type,
			checksum = EXCLUDED.checksum
	`

	var checksum *string
	if info.Checksum != "" {
		checksum = &info.Checksum
	}

	_, err := s.db.ExecContext(ctx, query,
		info.ID,
		info.Filename,
		info.FileSize,
		string(info.FileType),
		NullString(checksum),
		info.UploadTime,
	)
	return err
}

// Get retrieves file metadata by ID
func (s *FileStore) Get(ctx context.Context, id string) (*domain.FileInfo, error) {
	query := `
		SELECT id, filename, file_size, file_type, checksum, upload_time
		FROM files
		WHERE id = $1
	`

	info, err := scanFile(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return info, err
}

// List returns all files, most recently uploaded first
func (s *FileStore) List(ctx context.Context) ([]*domain.FileInfo, error) {
	query := `
		SELECT id, filename, file_size, file_type, checksum, upload_time
		FROM files
		ORDER BY upload_time DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]*domain.FileInfo, 0)
	for rows.Next() {
		info, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, info)
	}
	return files, rows.Err()
}

// Delete removes file metadata
func (s *FileStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*domain.FileInfo, error) {
	var info domain.FileInfo
	var fileType string
	var checksum sql.NullString

	err := row.Scan(
		&info.ID,
		&info.Filename,
		&info.FileSize,
		&fileType,
		&checksum,
		&info.UploadTime,
	)
	if err != nil {
		return nil, err
	}

	info.FileType = domain.FileType(fileType)
	if s := StringPtr(checksum); s != nil {
		info.Checksum = *s
	}
	info.UploadTime = info.UploadTime.UTC()
	return &info, nil
}
