package listener

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/medsync/internal/client/datasource"
	"github.com/iudanet/medsync/internal/client/updatelog"
	"github.com/iudanet/medsync/internal/models"
)

// FreshnessWindow окно, в пределах которого данные пациента считаются свежими
const FreshnessWindow = 5 * time.Minute

// PatientWatcher — вариант слушателя для одного пациента: фильтрует
// обновления слушателя по patientID и дополнительно выполняет собственную
// одноразовую начальную загрузку профиля.
type PatientWatcher struct {
	lastUpdate time.Time
	data       *models.PatientRecord
	listener   *Listener
	source     datasource.PatientSource
	log        *updatelog.Log
	logger     *slog.Logger
	patientID  string
	mu         sync.Mutex
	loaded     bool
}

// NewPatientWatcher creates a watcher for a single patient
func NewPatientWatcher(listener *Listener, source datasource.PatientSource, log *updatelog.Log, logger *slog.Logger, patientID string) *PatientWatcher {
	return &PatientWatcher{
		listener:  listener,
		source:    source,
		log:       log,
		logger:    logger,
		patientID: patientID,
	}
}

// Load выполняет одноразовую начальную загрузку профиля.
// Повторные вызовы ничего не делают.
func (w *PatientWatcher) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.loaded {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	record, err := w.source.GetProfile(ctx, w.patientID)
	if err != nil {
		return fmt.Errorf("initial load failed for patient %s: %w", w.patientID, err)
	}

	w.mu.Lock()
	w.data = record
	w.loaded = true
	if record != nil {
		w.lastUpdate = time.Now()
	}
	w.mu.Unlock()

	return nil
}

// Refresh принудительно перечитывает профиль пациента
func (w *PatientWatcher) Refresh(ctx context.Context) error {
	record, err := w.source.RefreshProfile(ctx, w.patientID)
	if err != nil {
		return fmt.Errorf("refresh failed for patient %s: %w", w.patientID, err)
	}

	w.mu.Lock()
	w.data = record
	w.loaded = true
	if record != nil {
		w.lastUpdate = time.Now()
	}
	w.mu.Unlock()

	return nil
}

// PatientData возвращает последнюю известную запись пациента
func (w *PatientWatcher) PatientData() (*models.PatientRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.data == nil {
		return nil, false
	}
	return w.data.Clone(), true
}

// RecentUpdates возвращает обновления слушателя, относящиеся к пациенту
func (w *PatientWatcher) RecentUpdates() []updatelog.Entry {
	all := w.listener.RecentUpdates()
	out := make([]updatelog.Entry, 0, len(all))
	for _, entry := range all {
		if entry.PatientID == w.patientID {
			out = append(out, entry)
		}
	}
	return out
}

// IsDataFresh сообщает, наблюдалось ли последнее обновление пациента
// менее FreshnessWindow назад. Учитывается и durable log, и момент
// последней собственной загрузки.
func (w *PatientWatcher) IsDataFresh(ctx context.Context) bool {
	last := w.lastObserved(ctx)
	if last.IsZero() {
		return false
	}
	return time.Since(last) < FreshnessWindow
}

// lastObserved возвращает самое позднее известное время обновления пациента
func (w *PatientWatcher) lastObserved(ctx context.Context) time.Time {
	w.mu.Lock()
	last := w.lastUpdate
	w.mu.Unlock()

	if ts, ok := w.log.LatestForPatient(ctx, w.patientID); ok && ts.After(last) {
		last = ts
	}
	return last
}
