package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType тип события синхронизации
type EventType string

// Типы событий, порождаемых координатором при изменении профиля
const (
	EventPatientProfileUpdated   EventType = "patient_profile_updated"
	EventPatientBirthDateUpdated EventType = "patient_birth_date_updated"
	EventPatientAgeUpdated       EventType = "patient_age_updated"
	EventPatientContactUpdated   EventType = "patient_contact_updated"
)

// SyncEvent представляет внутрипроцессное уведомление об изменении данных пациента.
// Создается один раз на мутацию и после создания не изменяется.
type SyncEvent struct {
	Timestamp   time.Time     `json:"timestamp"`    // Timestamp момент создания события
	Data        *PatientPatch `json:"data"`         // Data частичные данные, вызвавшие событие
	ID          string        `json:"id"`           // ID уникальный идентификатор события (UUID)
	Type        EventType     `json:"type"`         // Type тип события
	PatientID   string        `json:"patient_id"`   // PatientID затронутый пациент
	TriggeredBy string        `json:"triggered_by"` // TriggeredBy идентификатор актора, инициировавшего изменение
}

// NewSyncEvent создает новое событие синхронизации
func NewSyncEvent(eventType EventType, patientID string, data *PatientPatch, triggeredBy string) *SyncEvent {
	return &SyncEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		PatientID:   patientID,
		Data:        data,
		Timestamp:   time.Now(),
		TriggeredBy: triggeredBy,
	}
}
