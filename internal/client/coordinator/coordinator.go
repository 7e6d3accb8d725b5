package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/medsync/internal/client/datasource"
	"github.com/iudanet/medsync/internal/client/updatelog"
	"github.com/iudanet/medsync/internal/models"
	"github.com/iudanet/medsync/internal/retrypolicy"
	"github.com/iudanet/medsync/internal/validation"
)

const (
	// CacheTTL время, в течение которого запись второго уровня считается свежей.
	// Протухание не вызывает никаких переходов само по себе — staleness
	// оценивается лениво при следующем чтении.
	CacheTTL = 5 * time.Minute

	// DefaultFetchAttempts число попыток загрузки профиля
	DefaultFetchAttempts = 3

	// DefaultBackoffBase база линейного backoff между попытками
	DefaultBackoffBase = time.Second
)

// Handler обработчик события синхронизации
type Handler func(event *models.SyncEvent)

// Coordinator — центральная шина событий и менеджер кэша записей пациентов.
// Владеет кэшем второго уровня и реестром подписчиков; кэш приватен для
// процесса, межпроцессное оповещение идет через durable update log.
type Coordinator struct {
	now         func() time.Time
	source      datasource.PatientSource
	broadcast   *updatelog.Log
	logger      *slog.Logger
	cache       map[string]*models.PatientRecord
	fetchedAt   map[string]time.Time
	subscribers map[models.EventType]map[uint64]Handler
	policy      retrypolicy.Policy
	nextSubID   uint64
	mu          sync.Mutex
}

// New creates a new sync coordinator.
// broadcast may be nil: then updates are fanned out in-process only and
// sibling processes are not notified.
func New(source datasource.PatientSource, broadcast *updatelog.Log, logger *slog.Logger) *Coordinator {
	return NewWithPolicy(source, broadcast, logger,
		retrypolicy.New(DefaultFetchAttempts, DefaultBackoffBase))
}

// NewWithPolicy creates a coordinator with a custom fetch retry policy
func NewWithPolicy(source datasource.PatientSource, broadcast *updatelog.Log, logger *slog.Logger, policy retrypolicy.Policy) *Coordinator {
	return &Coordinator{
		source:      source,
		broadcast:   broadcast,
		logger:      logger,
		policy:      policy,
		cache:       make(map[string]*models.PatientRecord),
		fetchedAt:   make(map[string]time.Time),
		subscribers: make(map[models.EventType]map[uint64]Handler),
		now:         time.Now,
	}
}

// Subscribe регистрирует обработчик для типа события и возвращает функцию
// отписки, удаляющую только этот обработчик.
func (c *Coordinator) Subscribe(eventType models.EventType, handler Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.subscribers[eventType]
	if !ok {
		bucket = make(map[uint64]Handler)
		c.subscribers[eventType] = bucket
	}

	id := c.nextSubID
	c.nextSubID++
	bucket[id] = handler

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers[eventType], id)
	}
}

// notify вызывает все обработчики, зарегистрированные на тип события.
// Паника одного обработчика не мешает остальным в том же fan-out.
func (c *Coordinator) notify(event *models.SyncEvent) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subscribers[event.Type]))
	for _, h := range c.subscribers[event.Type] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		c.invoke(h, event)
	}
}

// invoke вызывает один обработчик под защитой recover
func (c *Coordinator) invoke(h Handler, event *models.SyncEvent) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("subscriber panicked",
				"event_type", event.Type,
				"patient_id", event.PatientID,
				"panic", r)
		}
	}()
	h(event)
}

// OnPatientProfileUpdated — единственная точка входа записи.
// Порядок шагов: валидация, проверка целостности против кэшированной
// версии, санитизация, checksum, upsert в кэш, типизированные события,
// всегда одно общее profile-updated событие, best-effort запись в
// durable log для соседних процессов.
func (c *Coordinator) OnPatientProfileUpdated(ctx context.Context, patientID string, patch *models.PatientPatch, actingUser string) error {
	result := validation.Validate(patch)
	for _, w := range result.Warnings {
		c.logger.Warn("patient update warning", "patient_id", patientID, "warning", w)
	}
	if !result.IsValid {
		c.logger.Warn("patient update rejected", "patient_id", patientID, "errors", result.Errors)
		return &ValidationError{PatientID: patientID, Errors: result.Errors}
	}

	c.mu.Lock()
	old := c.cache[patientID]
	c.mu.Unlock()

	candidate := patch.Apply(old, patientID)

	if old != nil {
		integrity := validation.CheckIntegrity(old, candidate)
		for _, w := range integrity.Warnings {
			c.logger.Warn("patient update integrity warning", "patient_id", patientID, "warning", w)
		}
		if !integrity.IsValid {
			c.logger.Warn("patient update rejected by integrity check",
				"patient_id", patientID, "errors", integrity.Errors)
			return &IntegrityError{PatientID: patientID, Errors: integrity.Errors}
		}
	}

	candidate = validation.Sanitize(candidate)
	candidate.SyncChecksum = validation.Checksum(candidate)

	c.upsert(patientID, candidate)

	// Типизированные события по затронутым полям
	if patch.DateOfBirth != nil {
		c.notify(models.NewSyncEvent(models.EventPatientBirthDateUpdated, patientID, patch, actingUser))
		// Производный возраст меняется вместе с датой рождения
		c.notify(models.NewSyncEvent(models.EventPatientAgeUpdated, patientID, patch, actingUser))
	}
	if patch.Phone != nil || patch.Email != nil {
		c.notify(models.NewSyncEvent(models.EventPatientContactUpdated, patientID, patch, actingUser))
	}

	// Общее событие отправляется всегда, какие бы поля ни менялись
	c.notify(models.NewSyncEvent(models.EventPatientProfileUpdated, patientID, patch, actingUser))

	// Оповещаем соседние процессы; сбой лога не влияет на основной путь
	if c.broadcast != nil {
		c.broadcast.Append(ctx, patientID, patch)
	}

	return nil
}

// GetPatientData возвращает запись пациента: из кэша, если она моложе
// CacheTTL и forceRefresh не задан, иначе через источник данных с
// повторами. При полном провале отдает последнюю известную версию
// любой давности; ошибка возвращается только если данных нет вообще.
func (c *Coordinator) GetPatientData(ctx context.Context, patientID string, forceRefresh bool) (*models.PatientRecord, error) {
	c.mu.Lock()
	cached := c.cache[patientID]
	fetched := c.fetchedAt[patientID]
	c.mu.Unlock()

	if cached != nil && !forceRefresh && c.now().Sub(fetched) < CacheTTL {
		return cached.Clone(), nil
	}

	var record *models.PatientRecord
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		if forceRefresh {
			record, fetchErr = c.source.RefreshProfile(ctx, patientID)
		} else {
			record, fetchErr = c.source.GetProfile(ctx, patientID)
		}
		return fetchErr
	})
	if err != nil {
		if cached != nil {
			c.logger.Warn("fetch failed, serving last known data",
				"patient_id", patientID, "error", err)
			return cached.Clone(), nil
		}
		return nil, &DataUnavailableError{PatientID: patientID, Err: err}
	}

	if record == nil {
		// Бэкенд ничего не знает о пациенте
		if cached != nil {
			return cached.Clone(), nil
		}
		return nil, nil
	}

	clean := validation.Sanitize(record)
	clean.SyncChecksum = validation.Checksum(clean)
	c.upsert(patientID, clean)

	return clean.Clone(), nil
}

// InvalidatePatientCache удаляет запись пациента и ее временную метку
func (c *Coordinator) InvalidatePatientCache(patientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, patientID)
	delete(c.fetchedAt, patientID)
}

// ClearCache удаляет все записи и временные метки
func (c *Coordinator) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*models.PatientRecord)
	c.fetchedAt = make(map[string]time.Time)
}

// ShouldRefresh сравнивает server-side подсказку последнего изменения
// с локальной временной меткой кэша. Если любое из значений недоступно —
// отвечает "да, обновляться": ошибаемся в сторону свежести.
func (c *Coordinator) ShouldRefresh(ctx context.Context, patientID string) bool {
	hint, ok := c.source.GetLastUpdatedHint(ctx, patientID)
	if !ok {
		return true
	}

	c.mu.Lock()
	local, has := c.fetchedAt[patientID]
	c.mu.Unlock()
	if !has {
		return true
	}

	return hint.After(local)
}

// BatchUpdatePatients загружает профили пачкой, апсертит каждую
// полученную запись и отправляет по одному profile-updated событию на
// пациента. Провал всего batch-вызова логируется и не пробрасывается,
// чтобы один неудачный batch не ронял зависимый UI.
func (c *Coordinator) BatchUpdatePatients(ctx context.Context, patientIDs []string) {
	records, err := c.source.BatchProfiles(ctx, patientIDs)
	if err != nil {
		c.logger.Warn("batch update failed", "patient_ids", patientIDs, "error", err)
		return
	}

	for _, record := range records {
		if record.ID == "" {
			c.logger.Warn("batch update returned record without id, skipping")
			continue
		}

		c.mu.Lock()
		old := c.cache[record.ID]
		c.mu.Unlock()

		clean := validation.Sanitize(record)
		if old != nil {
			integrity := validation.CheckIntegrity(old, clean)
			for _, w := range integrity.Warnings {
				c.logger.Warn("batch update integrity warning", "patient_id", record.ID, "warning", w)
			}
			if !integrity.IsValid {
				// Один плохой пациент не прерывает остальную пачку
				c.logger.Warn("batch update skipped patient",
					"patient_id", record.ID, "errors", integrity.Errors)
				continue
			}
		}

		clean.SyncChecksum = validation.Checksum(clean)
		c.upsert(record.ID, clean)

		c.notify(models.NewSyncEvent(models.EventPatientProfileUpdated, record.ID, nil, "batch"))
	}
}

// CachedPatient возвращает текущую кэшированную запись без обращения
// к источнику; свежесть не проверяется
func (c *Coordinator) CachedPatient(patientID string) (*models.PatientRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.cache[patientID]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// upsert кладет запись в кэш со свежей LastUpdated.
// LastUpdated строго возрастает в пределах процесса: если настенные часы
// не продвинулись, метка сдвигается на миллисекунду вперед.
func (c *Coordinator) upsert(patientID string, record *models.PatientRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now()
	if old := c.cache[patientID]; old != nil && !ts.After(old.LastUpdated) {
		ts = old.LastUpdated.Add(time.Millisecond)
	}

	record.LastUpdated = ts
	c.cache[patientID] = record
	c.fetchedAt[patientID] = c.now()
}
