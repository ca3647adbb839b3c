package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

func TestFileStore_SaveAndGet(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()

	info := &domain.FileInfo{ID: "a", Filename: "plan.dxf", FileType: domain.FileTypeDXF, FileSize: 10}
	require.NoError(t, store.Save(ctx, info))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, info, got)

	// Returned values are copies
	got.Filename = "changed.dxf"
	again, _ := store.Get(ctx, "a")
	assert.Equal(t, "plan.dxf", again.Filename)
}

func TestFileStore_SaveInvalid(t *testing.T) {
	store := NewFileStore()
	assert.ErrorIs(t, store.Save(context.Background(), &domain.FileInfo{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
}

func TestFileStore_List(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.FileInfo{ID: "old", UploadTime: base}))
	require.NoError(t, store.Save(ctx, &domain.FileInfo{ID: "new", UploadTime: base.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.FileInfo{ID: "b-tie", UploadTime: base}))

	files, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "new", files[0].ID)
	assert.Equal(t, "b-tie", files[1].ID)
	assert.Equal(t, "old", files[2].ID)
}

func TestFileStore_Delete(t *testing.T) {
	store := NewFileStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.FileInfo{ID: "a"}))

	require.NoError(t, store.Delete(ctx, "a"))
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a"), domain.ErrNotFound)
}
