package models

import "time"

// DateOnly формат ISO даты рождения
const DateOnly = "2006-01-02"

// PatientRecord представляет каноническую кэшируемую форму данных пациента.
// Это единица обмена между всеми уровнями кэша и слушателями синхронизации.
type PatientRecord struct {
	LastUpdated  time.Time `json:"lastUpdated"`            // LastUpdated выставляется кэшем при каждой записи
	ID           string    `json:"id"`                     // ID неизменяемый идентификатор пациента
	FirstName    string    `json:"firstName"`              // FirstName имя (не пустое, до 50 символов)
	LastName     string    `json:"lastName"`               // LastName фамилия (не пустая, до 50 символов)
	Email        string    `json:"email"`                  // Email валидируемый адрес
	Phone        string    `json:"phone,omitempty"`        // Phone опциональный телефон (примерно E.164)
	DateOfBirth  string    `json:"dateOfBirth,omitempty"`  // DateOfBirth опциональная ISO дата YYYY-MM-DD
	ProfileImage string    `json:"profileImage,omitempty"` // ProfileImage опциональный URL аватара
	SyncChecksum string    `json:"syncChecksum,omitempty"` // SyncChecksum детерминированный дайджест контента
	Age          int       `json:"age,omitempty"`          // Age производное от DateOfBirth, когда дата известна
}

// Clone создает глубокую копию записи
func (r *PatientRecord) Clone() *PatientRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// PatientPatch представляет частичное обновление записи пациента.
// nil-поле означает "оставить существующее значение без изменений",
// непустой указатель выигрывает у кэшированного значения.
type PatientPatch struct {
	ID           *string `json:"id,omitempty"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	DateOfBirth  *string `json:"dateOfBirth,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Age          *int    `json:"age,omitempty"`
}

// Apply накладывает patch на существующую запись и возвращает новую запись.
// existing может быть nil — тогда запись собирается с нуля для patientID.
// Поля patch имеют приоритет над существующими, nil-поля не трогают запись.
func (p *PatientPatch) Apply(existing *PatientRecord, patientID string) *PatientRecord {
	var next *PatientRecord
	if existing != nil {
		next = existing.Clone()
	} else {
		next = &PatientRecord{ID: patientID}
	}
	if next.ID == "" {
		next.ID = patientID
	}
	if p == nil {
		return next
	}
	if p.FirstName != nil {
		next.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		next.LastName = *p.LastName
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Phone != nil {
		next.Phone = *p.Phone
	}
	if p.DateOfBirth != nil {
		next.DateOfBirth = *p.DateOfBirth
	}
	if p.ProfileImage != nil {
		next.ProfileImage = *p.ProfileImage
	}
	if p.Age != nil {
		next.Age = *p.Age
	}
	return next
}

// IsEmpty сообщает, несет ли patch хоть одно поле
func (p *PatientPatch) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.DateOfBirth == nil && p.ProfileImage == nil &&
		p.Age == nil && p.ID == nil
}

// String возвращает указатель на строку (хелпер для построения patch)
func String(s string) *string { return &s }

// Int возвращает указатель на int (хелпер для построения patch)
func Int(i int) *int { return &i }
