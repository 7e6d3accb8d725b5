package updatelog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/medsync/internal/client/storage"
	"github.com/iudanet/medsync/internal/models"
)

const (
	// StorageKey фиксированный ключ, под которым лог хранится в KV storage.
	// Все экземпляры приложения читают и пишут один и тот же ключ —
	// это и делает лог каналом оповещения между процессами.
	StorageKey = "medsync_patient_update_log"

	// DefaultCapacity максимальное число хранимых записей
	DefaultCapacity = 50

	// DefaultMaxAge возраст, после которого записи вычищаются
	DefaultMaxAge = 24 * time.Hour
)

// Entry представляет одну неизменяемую запись лога обновлений
type Entry struct {
	Timestamp   time.Time            `json:"timestamp"`   // Timestamp момент обновления
	UpdatedData *models.PatientPatch `json:"updatedData"` // UpdatedData частичные данные обновления
	PatientID   string               `json:"patientId"`   // PatientID затронутый пациент
}

// Log представляет durable append-only лог обновлений пациентов поверх
// KV storage. Лог — best-effort канал оповещения, не система записи:
// все ошибки storage логируются и проглатываются, параллельные append
// из разных процессов теряются по принципу last-writer-wins.
type Log struct {
	store    storage.KVStorage
	logger   *slog.Logger
	key      string
	capacity int
}

// New creates a new update log over the given storage
func New(store storage.KVStorage, logger *slog.Logger) *Log {
	return NewWithCapacity(store, logger, DefaultCapacity)
}

// NewWithCapacity creates a new update log with a custom capacity bound
func NewWithCapacity(store storage.KVStorage, logger *slog.Logger, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		store:    store,
		logger:   logger,
		key:      StorageKey,
		capacity: capacity,
	}
}

// Append добавляет запись об обновлении пациента в начало лога и
// обрезает лог до capacity. Конкурентный append из другого процесса
// может потеряться — это принятое ограничение канала, а не баг.
func (l *Log) Append(ctx context.Context, patientID string, updated *models.PatientPatch) {
	entries := l.load(ctx)

	entry := Entry{
		PatientID:   patientID,
		UpdatedData: updated,
		Timestamp:   time.Now(),
	}

	// Новые записи в начало, самые старые вытесняются с конца
	entries = append([]Entry{entry}, entries...)
	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}

	l.save(ctx, entries)
}

// ReadAll возвращает все записи лога, самые свежие первыми
func (l *Log) ReadAll(ctx context.Context) []Entry {
	return l.load(ctx)
}

// ReadSince возвращает записи строго новее ts, самые свежие первыми.
// Позволяет потребителю продолжить с checkpoint, не перечитывая
// уже обработанные обновления.
func (l *Log) ReadSince(ctx context.Context, ts time.Time) []Entry {
	entries := l.load(ctx)

	// Лог упорядочен по убыванию времени — обрезаем на первой старой записи
	for i, entry := range entries {
		if !entry.Timestamp.After(ts) {
			return entries[:i]
		}
	}

	return entries
}

// PurgeOlderThan удаляет записи старше maxAge и возвращает число удаленных
func (l *Log) PurgeOlderThan(ctx context.Context, maxAge time.Duration) int {
	entries := l.load(ctx)
	cutoff := time.Now().Add(-maxAge)

	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}

	removed := len(entries) - len(kept)
	if removed > 0 {
		l.save(ctx, kept)
	}

	return removed
}

// LatestForPatient возвращает время последнего обновления пациента в логе.
// Второе значение false, если обновлений для пациента нет.
func (l *Log) LatestForPatient(ctx context.Context, patientID string) (time.Time, bool) {
	// Лог упорядочен по убыванию времени — первая найденная запись и есть последняя
	for _, entry := range l.load(ctx) {
		if entry.PatientID == patientID {
			return entry.Timestamp, true
		}
	}
	return time.Time{}, false
}

// load читает и декодирует лог; любая ошибка деградирует до пустого лога
func (l *Log) load(ctx context.Context) []Entry {
	raw, err := l.store.GetItem(ctx, l.key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			l.logger.Warn("failed to read update log, treating as empty", "error", err)
		}
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.logger.Warn("failed to decode update log, treating as empty", "error", err)
		return nil
	}

	return entries
}

// save кодирует и записывает лог; ошибки логируются и проглатываются
func (l *Log) save(ctx context.Context, entries []Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		l.logger.Warn("failed to encode update log", "error", err)
		return
	}

	if err := l.store.SetItem(ctx, l.key, string(data)); err != nil {
		l.logger.Warn("failed to write update log", "error", err)
	}
}
