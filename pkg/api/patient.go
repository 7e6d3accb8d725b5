package api

// PatientProfile представляет профиль пациента в том виде,
// в котором его отдает бэкенд (оба варианта эндпоинта возвращают одну форму)
type PatientProfile struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"` // ISO дата YYYY-MM-DD
	ProfileImage string `json:"profileImage,omitempty"`
	LastUpdated  string `json:"lastUpdated,omitempty"` // RFC3339, может отсутствовать
}

// BatchInfoResponse представляет ответ batch-info эндпоинта.
// Бэкенд возвращает только те профили, которые смог разрешить —
// отсутствие пациента в ответе не является ошибкой.
type BatchInfoResponse struct {
	Patients []PatientProfile `json:"patients"`
}

// LastModifiedResponse представляет облегченный ответ с server-side
// временем последнего изменения профиля
type LastModifiedResponse struct {
	PatientID    string `json:"patientId"`
	LastModified string `json:"lastModified"` // RFC3339
}

// ErrorResponse представляет ошибку от сервера
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
