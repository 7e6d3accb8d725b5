package listener

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/medsync/internal/client/datasource"
	"github.com/iudanet/medsync/internal/client/updatelog"
)

const (
	// DefaultCheckInterval период опроса лога в foreground
	DefaultCheckInterval = 30 * time.Second

	// DefaultPurgeInterval период обслуживания лога
	DefaultPurgeInterval = time.Hour

	// DefaultMaxEntryAge возраст записей, вычищаемых при обслуживании
	DefaultMaxEntryAge = 24 * time.Hour
)

// AppState состояние жизненного цикла хост-приложения
type AppState int

const (
	// StateBackground приложение свернуто, опрос не выполняется
	StateBackground AppState = iota
	// StateActive приложение на переднем плане
	StateActive
)

// CacheInvalidator сбрасывает запись пациента в кэше второго уровня
type CacheInvalidator interface {
	InvalidatePatientCache(patientID string)
}

// Listener — периодический потребитель durable update log.
// Обнаруживает обновления, появившиеся после checkpoint, инвалидирует
// затронутые записи кэша и принудительно перечитывает их через источник
// данных, чтобы локальное состояние отражало внешние изменения.
type Listener struct {
	lastCheck     time.Time
	checkpoint    time.Time
	log           *updatelog.Log
	source        datasource.PatientSource
	invalidator   CacheInvalidator
	logger        *slog.Logger
	done          chan struct{}
	cancel        context.CancelFunc
	recent        []updatelog.Entry
	checkInterval time.Duration
	purgeInterval time.Duration
	maxEntryAge   time.Duration
	mu            sync.Mutex
	foreground    bool
	hasUpdates    bool
}

// New creates a new sync listener.
// invalidator may be nil: then detected updates only refresh the data
// source and the reactive state, without touching the coordinator cache.
func New(log *updatelog.Log, source datasource.PatientSource, invalidator CacheInvalidator, logger *slog.Logger) *Listener {
	return &Listener{
		log:           log,
		source:        source,
		invalidator:   invalidator,
		logger:        logger,
		checkInterval: DefaultCheckInterval,
		purgeInterval: DefaultPurgeInterval,
		maxEntryAge:   DefaultMaxEntryAge,
	}
}

// SetIntervals переопределяет периоды опроса и обслуживания (для тестов
// и нестандартных окружений)
func (l *Listener) SetIntervals(check, purge time.Duration) {
	l.checkInterval = check
	l.purgeInterval = purge
}

// Start выполняет немедленную проверку без checkpoint (самый свежий срез
// лога, ограниченный его емкостью), ставит checkpoint в "сейчас",
// запускает стартовое обслуживание лога и фоновый цикл опроса.
// lifecycle может быть nil — тогда слушатель всегда считается foreground.
func (l *Listener) Start(ctx context.Context, lifecycle <-chan AppState) {
	runCtx, cancel := context.WithCancel(ctx)

	now := time.Now()
	initial := l.log.ReadAll(runCtx)

	l.mu.Lock()
	l.cancel = cancel
	l.done = make(chan struct{})
	l.recent = initial
	l.hasUpdates = len(initial) > 0
	l.checkpoint = now
	l.lastCheck = now
	l.foreground = true
	done := l.done
	l.mu.Unlock()

	// Стартовое обслуживание
	if removed := l.log.PurgeOlderThan(runCtx, l.maxEntryAge); removed > 0 {
		l.logger.Info("purged stale update log entries", "removed", removed)
	}

	go func() {
		defer close(done)
		l.run(runCtx, lifecycle)
	}()
}

// Stop останавливает цикл опроса и ждет его завершения
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// run — основной цикл: тик раз в checkInterval пока приложение на
// переднем плане, проверка при возврате в active, периодическое
// обслуживание лога.
func (l *Listener) run(ctx context.Context, lifecycle <-chan AppState) {
	ticker := time.NewTicker(l.checkInterval)
	defer ticker.Stop()

	purge := time.NewTicker(l.purgeInterval)
	defer purge.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case state, ok := <-lifecycle:
			if !ok {
				lifecycle = nil
				continue
			}
			l.mu.Lock()
			wasForeground := l.foreground
			l.foreground = state == StateActive
			nowForeground := l.foreground
			l.mu.Unlock()

			// Проверка при переходе в active
			if nowForeground && !wasForeground {
				l.check(ctx)
			}

		case <-ticker.C:
			l.mu.Lock()
			foreground := l.foreground
			l.mu.Unlock()
			if foreground {
				l.check(ctx)
			}

		case <-purge.C:
			if removed := l.log.PurgeOlderThan(ctx, l.maxEntryAge); removed > 0 {
				l.logger.Info("purged stale update log entries", "removed", removed)
			}
		}
	}
}

// RefreshPatientData выполняет внеочередную проверку лога
func (l *Listener) RefreshPatientData(ctx context.Context) {
	l.check(ctx)
}

// check читает записи новее checkpoint и для каждого затронутого
// пациента инвалидирует кэш и принудительно перечитывает профиль —
// именно перечитывает, а не читает из кэша.
func (l *Listener) check(ctx context.Context) {
	l.mu.Lock()
	checkpoint := l.checkpoint
	l.mu.Unlock()

	entries := l.log.ReadSince(ctx, checkpoint)
	now := time.Now()

	l.mu.Lock()
	l.lastCheck = now
	if len(entries) > 0 {
		// Записи упорядочены по убыванию времени — первая самая свежая
		l.checkpoint = entries[0].Timestamp
		l.recent = entries
		l.hasUpdates = true
	}
	l.mu.Unlock()

	if len(entries) == 0 {
		return
	}

	for _, patientID := range distinctPatients(entries) {
		if l.invalidator != nil {
			l.invalidator.InvalidatePatientCache(patientID)
		}
		if _, err := l.source.RefreshProfile(ctx, patientID); err != nil {
			l.logger.Warn("failed to refresh patient after external update",
				"patient_id", patientID, "error", err)
		}
	}
}

// RecentUpdates возвращает записи, обнаруженные последней проверкой
func (l *Listener) RecentUpdates() []updatelog.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]updatelog.Entry, len(l.recent))
	copy(out, l.recent)
	return out
}

// HasUpdates сообщает, были ли обнаружены обновления
func (l *Listener) HasUpdates() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasUpdates
}

// LastCheckTime возвращает время последней проверки лога
func (l *Listener) LastCheckTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastCheck
}

// distinctPatients возвращает уникальные patient id в порядке появления
func distinctPatients(entries []updatelog.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.PatientID]; ok {
			continue
		}
		seen[e.PatientID] = struct{}{}
		out = append(out, e.PatientID)
	}
	return out
}
