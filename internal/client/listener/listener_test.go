package listener

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/medsync/internal/client/datasource"
	"github.com/iudanet/medsync/internal/client/storage"
	"github.com/iudanet/medsync/internal/client/updatelog"
	"github.com/iudanet/medsync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// newMemoryLog возвращает update log поверх map-бэкенда
func newMemoryLog(logger *slog.Logger) *updatelog.Log {
	items := make(map[string]string)
	var mu sync.Mutex
	mock := &storage.KVStorageMock{
		GetItemFunc: func(ctx context.Context, key string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			value, ok := items[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return value, nil
		},
		SetItemFunc: func(ctx context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			items[key] = value
			return nil
		},
		DeleteItemFunc: func(ctx context.Context, key string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(items, key)
			return nil
		},
	}
	return updatelog.New(mock, logger)
}

// recordingInvalidator считает инвалидации по пациентам
type recordingInvalidator struct {
	mu       sync.Mutex
	patients []string
}

func (r *recordingInvalidator) InvalidatePatientCache(patientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients = append(r.patients, patientID)
}

func (r *recordingInvalidator) invalidated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.patients))
	copy(out, r.patients)
	return out
}

func TestListener_Start_ReadsExistingEntries(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)
	ctx := context.Background()

	log.Append(ctx, "patient-1", nil)

	lst := New(log, &datasource.PatientSourceMock{}, nil, logger)
	lst.SetIntervals(time.Hour, time.Hour)

	lst.Start(ctx, nil)
	defer lst.Stop()

	// Стартовая проверка идет без checkpoint и видит существующие записи
	assert.True(t, lst.HasUpdates())
	require.Len(t, lst.RecentUpdates(), 1)
	assert.Equal(t, "patient-1", lst.RecentUpdates()[0].PatientID)
	assert.False(t, lst.LastCheckTime().IsZero())
}

func TestListener_DetectsNewEntriesAndForcesRefresh(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)
	ctx := context.Background()

	mockSource := &datasource.PatientSourceMock{
		RefreshProfileFunc: func(ctx context.Context, patientID string) (*models.PatientRecord, error) {
			return &models.PatientRecord{ID: patientID}, nil
		},
	}
	invalidator := &recordingInvalidator{}

	lst := New(log, mockSource, invalidator, logger)
	lst.SetIntervals(time.Hour, time.Hour)

	lst.Start(ctx, nil)
	defer lst.Stop()

	// Соседний процесс публикует обновления
	log.Append(ctx, "patient-1", &models.PatientPatch{Email: models.String("a@example.com")})
	log.Append(ctx, "patient-2", nil)
	log.Append(ctx, "patient-1", nil)

	lst.RefreshPatientData(ctx)

	// Кэш инвалидирован и профиль перечитан по одному разу на пациента
	assert.ElementsMatch(t, []string{"patient-1", "patient-2"}, invalidator.invalidated())
	assert.Len(t, mockSource.RefreshProfileCalls(), 2)

	// Checkpoint продвинут — повторная проверка ничего не находит
	lst.RefreshPatientData(ctx)
	assert.Len(t, mockSource.RefreshProfileCalls(), 2)
}

func TestListener_ChecksOnReturnToForeground(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)
	ctx := context.Background()

	mockSource := &datasource.PatientSourceMock{
		RefreshProfileFunc: func(ctx context.Context, patientID string) (*models.PatientRecord, error) {
			return &models.PatientRecord{ID: patientID}, nil
		},
	}

	lifecycle := make(chan AppState)

	lst := New(log, mockSource, nil, logger)
	lst.SetIntervals(time.Hour, time.Hour)

	lst.Start(ctx, lifecycle)
	defer lst.Stop()

	lifecycle <- StateBackground

	// Обновление приходит пока приложение в фоне
	log.Append(ctx, "patient-1", nil)

	lifecycle <- StateActive

	// Переход в active вызывает немедленную проверку
	assert.Eventually(t, func() bool {
		return len(mockSource.RefreshProfileCalls()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestListener_StopIsIdempotentBeforeStart(t *testing.T) {
	lst := New(newMemoryLog(testLogger()), &datasource.PatientSourceMock{}, nil, testLogger())
	lst.Stop()
}

func TestPatientWatcher_LoadOnce(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)

	mockSource := &datasource.PatientSourceMock{
		GetProfileFunc: func(ctx context.Context, patientID string) (*models.PatientRecord, error) {
			return &models.PatientRecord{ID: patientID, FirstName: "Anna"}, nil
		},
	}

	lst := New(log, mockSource, nil, logger)
	watcher := NewPatientWatcher(lst, mockSource, log, logger, "patient-1")
	ctx := context.Background()

	require.NoError(t, watcher.Load(ctx))
	require.NoError(t, watcher.Load(ctx))

	// Повторный Load — no-op
	assert.Len(t, mockSource.GetProfileCalls(), 1)

	record, ok := watcher.PatientData()
	require.True(t, ok)
	assert.Equal(t, "Anna", record.FirstName)
}

func TestPatientWatcher_Refresh(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)

	name := "Anna"
	mockSource := &datasource.PatientSourceMock{
		GetProfileFunc: func(ctx context.Context, patientID string) (*models.PatientRecord, error) {
			return &models.PatientRecord{ID: patientID, FirstName: name}, nil
		},
		RefreshProfileFunc: func(ctx context.Context, patientID string) (*models.PatientRecord, error) {
			return &models.PatientRecord{ID: patientID, FirstName: name}, nil
		},
	}

	lst := New(log, mockSource, nil, logger)
	watcher := NewPatientWatcher(lst, mockSource, log, logger, "patient-1")
	ctx := context.Background()

	require.NoError(t, watcher.Load(ctx))

	name = "Maria"
	require.NoError(t, watcher.Refresh(ctx))

	record, ok := watcher.PatientData()
	require.True(t, ok)
	assert.Equal(t, "Maria", record.FirstName)
}

func TestPatientWatcher_RecentUpdatesFiltersByPatient(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)
	ctx := context.Background()

	log.Append(ctx, "patient-1", nil)
	log.Append(ctx, "patient-2", nil)
	log.Append(ctx, "patient-1", nil)

	lst := New(log, &datasource.PatientSourceMock{}, nil, logger)
	lst.SetIntervals(time.Hour, time.Hour)
	lst.Start(ctx, nil)
	defer lst.Stop()

	watcher := NewPatientWatcher(lst, &datasource.PatientSourceMock{}, log, logger, "patient-1")

	updates := watcher.RecentUpdates()
	require.Len(t, updates, 2)
	for _, entry := range updates {
		assert.Equal(t, "patient-1", entry.PatientID)
	}
}

func TestPatientWatcher_IsDataFresh(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)
	ctx := context.Background()

	mockSource := &datasource.PatientSourceMock{
		GetProfileFunc: func(ctx context.Context, patientID string) (*models.PatientRecord, error) {
			return &models.PatientRecord{ID: patientID}, nil
		},
	}

	lst := New(log, mockSource, nil, logger)
	watcher := NewPatientWatcher(lst, mockSource, log, logger, "patient-1")

	// Ничего не загружено и лог пуст
	assert.False(t, watcher.IsDataFresh(ctx))

	require.NoError(t, watcher.Load(ctx))
	assert.True(t, watcher.IsDataFresh(ctx))
}

func TestPatientWatcher_IsDataFresh_FromUpdateLog(t *testing.T) {
	logger := testLogger()
	log := newMemoryLog(logger)
	ctx := context.Background()

	lst := New(log, &datasource.PatientSourceMock{}, nil, logger)
	watcher := NewPatientWatcher(lst, &datasource.PatientSourceMock{}, log, logger, "patient-1")

	// Свежая запись в durable log делает данные свежими без загрузки
	log.Append(ctx, "patient-1", nil)
	assert.True(t, watcher.IsDataFresh(ctx))

	// Обновления другого пациента не считаются
	other := NewPatientWatcher(lst, &datasource.PatientSourceMock{}, log, logger, "patient-9")
	assert.False(t, other.IsDataFresh(ctx))
}
