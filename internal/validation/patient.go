package validation

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/iudanet/medsync/internal/models"
)

// EmailPattern определяет допустимый формат email
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`)

// PhonePattern определяет ожидаемый формат телефона (примерно E.164,
// допускаются пробелы, скобки и дефисы). Несовпадение — не ошибка, а warning.
var PhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,18}[0-9]$`)

const (
	// MaxNameLen максимальная длина имени/фамилии
	MaxNameLen = 50
	// MaxAge верхняя граница правдоподобного возраста
	MaxAge = 150
)

// Result содержит исход проверки: жесткие ошибки блокируют запись в кэш,
// warnings фиксируют мягкие аномалии и запись не блокируют.
type Result struct {
	Errors   []string
	Warnings []string
	IsValid  bool
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate проверяет частичное обновление данных пациента.
// Проверяются только переданные поля — отсутствующие поля легальны,
// частичные обновления являются нормой. Вход не мутируется.
func Validate(patch *models.PatientPatch) Result {
	result := Result{IsValid: true}
	if patch == nil {
		return result
	}

	if patch.FirstName != nil {
		validateName(&result, "first name", *patch.FirstName)
	}
	if patch.LastName != nil {
		validateName(&result, "last name", *patch.LastName)
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !EmailPattern.MatchString(email) {
			result.addError("invalid email format: %q", *patch.Email)
		}
	}

	if patch.Phone != nil && strings.TrimSpace(*patch.Phone) != "" {
		if !PhonePattern.MatchString(strings.TrimSpace(*patch.Phone)) {
			result.addWarning("implausible phone number format: %q", *patch.Phone)
		}
	}

	var derivedAge = -1
	if patch.DateOfBirth != nil {
		dob, err := time.Parse(models.DateOnly, strings.TrimSpace(*patch.DateOfBirth))
		switch {
		case err != nil:
			result.addError("invalid date of birth %q: expected YYYY-MM-DD", *patch.DateOfBirth)
		case dob.After(time.Now()):
			result.addError("date of birth %q is in the future", *patch.DateOfBirth)
		default:
			derivedAge = AgeAt(dob, time.Now())
			if derivedAge > MaxAge {
				result.addError("date of birth %q implies age over %d", *patch.DateOfBirth, MaxAge)
			}
		}
	}

	if patch.Age != nil {
		if *patch.Age < 0 || *patch.Age > MaxAge {
			result.addError("age %d is out of range", *patch.Age)
		} else if derivedAge >= 0 {
			// Возраст и дата рождения переданы вместе — сверяем
			diff := derivedAge - *patch.Age
			if diff < 0 {
				diff = -diff
			}
			if diff > 1 {
				result.addError("age %d disagrees with date of birth (derived %d)", *patch.Age, derivedAge)
			} else if diff == 1 {
				result.addWarning("age %d differs slightly from date of birth (derived %d)", *patch.Age, derivedAge)
			}
		}
	}

	if patch.ProfileImage != nil && strings.TrimSpace(*patch.ProfileImage) != "" {
		if u, err := url.Parse(strings.TrimSpace(*patch.ProfileImage)); err != nil || u.Scheme == "" || u.Host == "" {
			result.addWarning("profile image URL is not parseable: %q", *patch.ProfileImage)
		}
	}

	return result
}

func validateName(result *Result, field, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		result.addError("%s cannot be empty", field)
		return
	}
	if len(trimmed) > MaxNameLen {
		result.addError("%s must not exceed %d characters", field, MaxNameLen)
	}
}

// Sanitize нормализует запись и возвращает ее копию: строки обрезаются,
// email приводится к нижнему регистру, а при наличии даты рождения возраст
// пересчитывается и перезаписывается. Это единственная точка, где
// обеспечивается согласованность age/dateOfBirth.
func Sanitize(record *models.PatientRecord) *models.PatientRecord {
	if record == nil {
		return nil
	}
	clean := record.Clone()
	clean.FirstName = strings.TrimSpace(clean.FirstName)
	clean.LastName = strings.TrimSpace(clean.LastName)
	clean.Email = strings.ToLower(strings.TrimSpace(clean.Email))
	clean.Phone = strings.TrimSpace(clean.Phone)
	clean.DateOfBirth = strings.TrimSpace(clean.DateOfBirth)
	clean.ProfileImage = strings.TrimSpace(clean.ProfileImage)

	if clean.DateOfBirth != "" {
		if dob, err := time.Parse(models.DateOnly, clean.DateOfBirth); err == nil {
			// Дата рождения — единственный источник истины для возраста
			clean.Age = AgeAt(dob, time.Now())
		}
	}

	return clean
}

// Checksum вычисляет детерминированный дайджест идентификационных полей записи.
// Поля хешируются в фиксированном порядке, поэтому результат стабилен между
// перезапусками процесса. Две записи с одинаковым дайджестом считаются
// контентно-идентичными (коллизии — принятое ограничение).
func Checksum(record *models.PatientRecord) string {
	payload := strings.Join([]string{
		record.ID,
		record.FirstName,
		record.LastName,
		record.Email,
		record.DateOfBirth,
		fmt.Sprintf("%d", record.Age),
	}, "\x1f")

	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// CheckIntegrity проверяет замену кэшированной записи новой версией.
// Несовпадение идентификатора — жесткая ошибка; тихая потеря ранее известных
// критичных полей (имя, фамилия, email) — warning, так как частичные
// обновления ожидаемы.
func CheckIntegrity(old, next *models.PatientRecord) Result {
	result := Result{IsValid: true}
	if old == nil || next == nil {
		return result
	}

	if old.ID != "" && next.ID != "" && old.ID != next.ID {
		result.addError("patient id mismatch: cached %q, incoming %q", old.ID, next.ID)
	}

	if old.FirstName != "" && next.FirstName == "" {
		result.addWarning("first name was known and is now absent")
	}
	if old.LastName != "" && next.LastName == "" {
		result.addWarning("last name was known and is now absent")
	}
	if old.Email != "" && next.Email == "" {
		result.addWarning("email was known and is now absent")
	}

	return result
}

// AgeAt вычисляет полный возраст в годах на момент now
func AgeAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	// Если годовщина в этом году еще не наступила — на год меньше
	if dob.AddDate(years, 0, 0).After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
