package updatelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medsync/internal/client/storage"
	"github.com/iudanet/medsync/internal/models"
)

// newMemoryStore возвращает мок KV storage поверх map
func newMemoryStore() (*storage.KVStorageMock, map[string]string) {
	items := make(map[string]string)
	mock := &storage.KVStorageMock{
		GetItemFunc: func(ctx context.Context, key string) (string, error) {
			value, ok := items[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return value, nil
		},
		SetItemFunc: func(ctx context.Context, key, value string) error {
			items[key] = value
			return nil
		},
		DeleteItemFunc: func(ctx context.Context, key string) error {
			delete(items, key)
			return nil
		},
	}
	return mock, items
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestLog_AppendAndReadAll(t *testing.T) {
	store, _ := newMemoryStore()
	log := New(store, testLogger())
	ctx := context.Background()

	log.Append(ctx, "patient-1", &models.PatientPatch{Email: models.String("a@example.com")})
	log.Append(ctx, "patient-2", nil)

	entries := log.ReadAll(ctx)
	require.Len(t, entries, 2)

	// Самая свежая запись первая
	assert.Equal(t, "patient-2", entries[0].PatientID)
	assert.Equal(t, "patient-1", entries[1].PatientID)
	require.NotNil(t, entries[1].UpdatedData)
	assert.Equal(t, "a@example.com", *entries[1].UpdatedData.Email)
}

func TestLog_ReadAll_Empty(t *testing.T) {
	store, _ := newMemoryStore()
	log := New(store, testLogger())

	assert.Empty(t, log.ReadAll(context.Background()))
}

func TestLog_CapacityBound(t *testing.T) {
	store, _ := newMemoryStore()
	log := New(store, testLogger())
	ctx := context.Background()

	// Пишем на две записи больше емкости
	for i := 0; i < DefaultCapacity+2; i++ {
		log.Append(ctx, fmt.Sprintf("patient-%d", i), nil)
	}

	entries := log.ReadAll(ctx)
	require.Len(t, entries, DefaultCapacity)

	// Выживают самые свежие, самые старые вытеснены
	assert.Equal(t, fmt.Sprintf("patient-%d", DefaultCapacity+1), entries[0].PatientID)
	assert.Equal(t, "patient-2", entries[len(entries)-1].PatientID)
}

func TestLog_ReadSince(t *testing.T) {
	store, _ := newMemoryStore()
	log := New(store, testLogger())
	ctx := context.Background()

	log.Append(ctx, "patient-1", nil)
	checkpoint := log.ReadAll(ctx)[0].Timestamp

	log.Append(ctx, "patient-2", nil)
	log.Append(ctx, "patient-3", nil)

	entries := log.ReadSince(ctx, checkpoint)
	require.Len(t, entries, 2)
	assert.Equal(t, "patient-3", entries[0].PatientID)
	assert.Equal(t, "patient-2", entries[1].PatientID)

	// Повторное чтение с продвинутым checkpoint ничего не возвращает
	assert.Empty(t, log.ReadSince(ctx, entries[0].Timestamp))
}

func TestLog_ReadSince_ZeroCheckpoint(t *testing.T) {
	store, _ := newMemoryStore()
	log := New(store, testLogger())
	ctx := context.Background()

	log.Append(ctx, "patient-1", nil)

	assert.Len(t, log.ReadSince(ctx, time.Time{}), 1)
}

func TestLog_PurgeOlderThan(t *testing.T) {
	store, items := newMemoryStore()
	log := New(store, testLogger())
	ctx := context.Background()

	// Кладем в storage лог со старыми и свежими записями
	now := time.Now()
	seeded := []Entry{
		{PatientID: "fresh", Timestamp: now},
		{PatientID: "stale-1", Timestamp: now.Add(-25 * time.Hour)},
		{PatientID: "stale-2", Timestamp: now.Add(-48 * time.Hour)},
	}
	data, err := json.Marshal(seeded)
	require.NoError(t, err)
	items[StorageKey] = string(data)

	removed := log.PurgeOlderThan(ctx, DefaultMaxAge)
	assert.Equal(t, 2, removed)

	entries := log.ReadAll(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].PatientID)

	// Повторная чистка ничего не удаляет и не переписывает storage
	assert.Equal(t, 0, log.PurgeOlderThan(ctx, DefaultMaxAge))
}

func TestLog_LatestForPatient(t *testing.T) {
	store, _ := newMemoryStore()
	log := New(store, testLogger())
	ctx := context.Background()

	log.Append(ctx, "patient-1", nil)
	log.Append(ctx, "patient-2", nil)
	log.Append(ctx, "patient-1", nil)

	ts, ok := log.LatestForPatient(ctx, "patient-1")
	require.True(t, ok)
	assert.Equal(t, log.ReadAll(ctx)[0].Timestamp, ts)

	_, ok = log.LatestForPatient(ctx, "patient-9")
	assert.False(t, ok)
}

func TestLog_StorageFailuresAreSwallowed(t *testing.T) {
	broken := &storage.KVStorageMock{
		GetItemFunc: func(ctx context.Context, key string) (string, error) {
			return "", errors.New("disk on fire")
		},
		SetItemFunc: func(ctx context.Context, key, value string) error {
			return errors.New("disk on fire")
		},
	}

	log := New(broken, testLogger())
	ctx := context.Background()

	// Канал best-effort: сбои storage не паникуют и не пробрасываются
	log.Append(ctx, "patient-1", nil)
	assert.Empty(t, log.ReadAll(ctx))
	assert.Equal(t, 0, log.PurgeOlderThan(ctx, DefaultMaxAge))
}

func TestLog_CorruptPayloadDegradesToEmpty(t *testing.T) {
	store, items := newMemoryStore()
	items[StorageKey] = "{not json"

	log := New(store, testLogger())

	assert.Empty(t, log.ReadAll(context.Background()))
}

func TestNewWithCapacity_ClampsCapacity(t *testing.T) {
	store, _ := newMemoryStore()
	log := NewWithCapacity(store, testLogger(), -5)
	ctx := context.Background()

	log.Append(ctx, "patient-1", nil)
	assert.Len(t, log.ReadAll(ctx), 1)
}
