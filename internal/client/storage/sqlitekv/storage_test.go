package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medsync/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestStorage_SetGetItem(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "key1", "value1"))

	value, err := s.GetItem(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", value)
}

func TestStorage_GetItem_NotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStorage_SetItem_Upserts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "key1", "old"))
	require.NoError(t, s.SetItem(ctx, "key1", "new"))

	value, err := s.GetItem(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "new", value)

	// Upsert не плодит дубликатов строк
	var count int
	row := s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_items WHERE key = ?", "key1")
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStorage_DeleteItem(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "key1", "value1"))
	require.NoError(t, s.DeleteItem(ctx, "key1"))

	_, err := s.GetItem(ctx, "key1")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Удаление несуществующего ключа — не ошибка
	assert.NoError(t, s.DeleteItem(ctx, "missing"))
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, first.SetItem(ctx, "key1", "value1"))
	require.NoError(t, first.Close())

	second, err := New(ctx, dbPath)
	require.NoError(t, err)
	defer second.Close()

	value, err := second.GetItem(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", value)
}
