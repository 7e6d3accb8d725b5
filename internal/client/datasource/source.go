package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpapi "github.com/iudanet/medsync/internal/client/api"
	"github.com/iudanet/medsync/internal/models"
	pkgapi "github.com/iudanet/medsync/pkg/api"
)

//go:generate moq -out source_mock.go . PatientSource

// DefaultTTL время жизни записи в приватном кэше источника
const DefaultTTL = 5 * time.Minute

// PatientSource определяет интерфейс источника данных пациента.
// Возвращает (nil, nil) когда данных нет нигде — not found это не ошибка.
type PatientSource interface {
	// GetProfile возвращает профиль пациента, используя приватный TTL кэш
	GetProfile(ctx context.Context, patientID string) (*models.PatientRecord, error)

	// RefreshProfile принудительно перечитывает профиль с бэкенда, минуя TTL
	RefreshProfile(ctx context.Context, patientID string) (*models.PatientRecord, error)

	// GetLastUpdatedHint возвращает server-side время последнего изменения.
	// Второе значение false, если подсказка недоступна.
	GetLastUpdatedHint(ctx context.Context, patientID string) (time.Time, bool)

	// BatchProfiles запрашивает профили нескольких пациентов одним вызовом
	BatchProfiles(ctx context.Context, patientIDs []string) ([]*models.PatientRecord, error)
}

// cacheEntry запись приватного кэша с моментом получения
type cacheEntry struct {
	fetchedAt time.Time
	record    *models.PatientRecord
}

// Source реализует PatientSource поверх API клиента.
// Держит собственный TTL кэш отдельно от кэша координатора: даже если
// кэш координатора инвалидирован, повторные обращения в пределах TTL
// не порождают лишних запросов к бэкенду.
type Source struct {
	now       func() time.Time
	apiClient httpapi.ClientAPI
	logger    *slog.Logger
	cache     map[string]cacheEntry
	ttl       time.Duration
	mu        sync.Mutex
}

// New creates a new patient data source
func New(apiClient httpapi.ClientAPI, logger *slog.Logger) *Source {
	return &Source{
		apiClient: apiClient,
		logger:    logger,
		cache:     make(map[string]cacheEntry),
		ttl:       DefaultTTL,
		now:       time.Now,
	}
}

// GetProfile возвращает профиль пациента, используя приватный TTL кэш
func (s *Source) GetProfile(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	s.mu.Lock()
	entry, ok := s.cache[patientID]
	fresh := ok && s.now().Sub(entry.fetchedAt) < s.ttl
	s.mu.Unlock()

	if fresh {
		return entry.record.Clone(), nil
	}

	return s.fetchRemote(ctx, patientID)
}

// RefreshProfile принудительно перечитывает профиль с бэкенда, минуя TTL
func (s *Source) RefreshProfile(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	return s.fetchRemote(ctx, patientID)
}

// fetchRemote пробует оба эндпоинта бэкенда, первый успех выигрывает.
// Если оба вызова упали — отдаем кэш любой давности: непрерывность UI
// важнее строгой свежести для этого уровня кэша.
func (s *Source) fetchRemote(ctx context.Context, patientID string) (*models.PatientRecord, error) {
	profile, primaryErr := s.apiClient.GetUserProfile(ctx, patientID)
	if primaryErr != nil || profile == nil {
		if primaryErr != nil {
			s.logger.Debug("primary profile endpoint failed, trying fallback",
				"patient_id", patientID, "error", primaryErr)
		}

		var fallbackErr error
		profile, fallbackErr = s.apiClient.GetPatientProfile(ctx, patientID)
		if fallbackErr != nil {
			// Оба вызова упали — пробуем кэш любой давности
			if stale, ok := s.cached(patientID); ok {
				s.logger.Warn("both profile endpoints failed, serving stale cache",
					"patient_id", patientID, "error", fallbackErr)
				return stale, nil
			}
			if primaryErr != nil {
				return nil, fmt.Errorf("both profile endpoints failed: %w", fallbackErr)
			}
			return nil, fmt.Errorf("fallback profile endpoint failed: %w", fallbackErr)
		}
	}

	if profile == nil {
		// Нигде нет данных — not found, не ошибка
		return nil, nil
	}

	record := recordFromProfile(profile)

	s.mu.Lock()
	s.cache[patientID] = cacheEntry{record: record.Clone(), fetchedAt: s.now()}
	s.mu.Unlock()

	return record, nil
}

// GetLastUpdatedHint возвращает server-side время последнего изменения
func (s *Source) GetLastUpdatedHint(ctx context.Context, patientID string) (time.Time, bool) {
	resp, err := s.apiClient.GetLastModified(ctx, patientID)
	if err != nil || resp == nil {
		if err != nil {
			s.logger.Debug("last modified hint unavailable", "patient_id", patientID, "error", err)
		}
		// Падаем назад на кэшированное значение, если оно есть
		if cached, ok := s.cached(patientID); ok && !cached.LastUpdated.IsZero() {
			return cached.LastUpdated, true
		}
		return time.Time{}, false
	}

	ts, err := time.Parse(time.RFC3339, resp.LastModified)
	if err != nil {
		s.logger.Debug("unparseable last modified hint", "patient_id", patientID, "value", resp.LastModified)
		return time.Time{}, false
	}

	return ts, true
}

// BatchProfiles запрашивает профили нескольких пациентов одним вызовом
// и обновляет приватный кэш каждым полученным профилем
func (s *Source) BatchProfiles(ctx context.Context, patientIDs []string) ([]*models.PatientRecord, error) {
	resp, err := s.apiClient.GetBatchInfo(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("batch info fetch failed: %w", err)
	}

	records := make([]*models.PatientRecord, 0, len(resp.Patients))
	now := s.now()

	s.mu.Lock()
	for i := range resp.Patients {
		record := recordFromProfile(&resp.Patients[i])
		s.cache[record.ID] = cacheEntry{record: record.Clone(), fetchedAt: now}
		records = append(records, record)
	}
	s.mu.Unlock()

	return records, nil
}

// cached возвращает запись из приватного кэша независимо от ее возраста
func (s *Source) cached(patientID string) (*models.PatientRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[patientID]
	if !ok {
		return nil, false
	}
	return entry.record.Clone(), true
}

// recordFromProfile конвертирует wire-форму профиля в каноническую запись
func recordFromProfile(p *pkgapi.PatientProfile) *models.PatientRecord {
	record := &models.PatientRecord{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		DateOfBirth:  p.DateOfBirth,
		ProfileImage: p.ProfileImage,
	}

	if p.LastUpdated != "" {
		if ts, err := time.Parse(time.RFC3339, p.LastUpdated); err == nil {
			record.LastUpdated = ts
		}
	}

	return record
}
