package coordinator

import (
	"fmt"
	"strings"
)

// ValidationError означает, что обновление не прошло структурные или
// семантические проверки; запись в кэш не выполнена, события не отправлены.
type ValidationError struct {
	PatientID string
	Errors    []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for patient %s: %s", e.PatientID, strings.Join(e.Errors, "; "))
}

// IntegrityError означает, что новая версия записи несовместима с
// кэшированной предшественницей (несовпадение идентификатора).
type IntegrityError struct {
	PatientID string
	Errors    []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for patient %s: %s", e.PatientID, strings.Join(e.Errors, "; "))
}

// DataUnavailableError означает, что данные пациента недоступны ни с
// бэкенда, ни из какого-либо кэша. Возвращается только когда показать
// пользователю вообще нечего.
type DataUnavailableError struct {
	Err       error
	PatientID string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("patient data unavailable for %s: %v", e.PatientID, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
