package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString возвращается, когда строка не соответствует формату HH:MM
var ErrInvalidTimeString = errors.New("invalid time string format")

const (
	timeStringLayout = "15:04"

	// EndOfDay "24:00": допустим только как время закрытия
	EndOfDay = "24:00"

	minutesPerDay = 24 * 60
)

// TimeString время суток в формате HH:MM (без даты)
// Хранится в минутах от полуночи, чтобы сравнение и сложение были тривиальными
type TimeString struct {
	minutes int
	valid   bool
}

// NewTimeString создает TimeString из времени (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), valid: true}
}

// NewTimeStringFromString парсит строку формата HH:MM
// "24:00" означает конец суток (1440 минут)
func NewTimeStringFromString(s string) (TimeString, error) {
	if s == EndOfDay {
		return TimeString{minutes: minutesPerDay, valid: true}, nil
	}
	t, err := time.Parse(timeStringLayout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// MustTimeString используется в тестах и константах
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// Hour возвращает час (0-23, 24 для конца суток)
func (t TimeString) Hour() int {
	return t.minutes / 60
}

// Minute возвращает минуты внутри часа (0-59)
func (t TimeString) Minute() int {
	return t.minutes % 60
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() int {
	return t.minutes
}

// IsEndOfDay возвращает true для "24:00"
func (t TimeString) IsEndOfDay() bool {
	return t.valid && t.minutes == minutesPerDay
}

// IsZero возвращает true, если значение не было задано
func (t TimeString) IsZero() bool {
	return !t.valid
}

// Validate проверяет, что значение задано и находится в пределах суток, включая 24:00
func (t TimeString) Validate() error {
	if !t.valid {
		return ErrInvalidTimeString
	}
	if t.minutes < 0 || t.minutes > minutesPerDay {
		return fmt.Errorf("%w: out of range", ErrInvalidTimeString)
	}
	return nil
}

// AddMinutes прибавляет минуты, не допуская выхода за пределы суток
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	total := t.minutes + m
	if total < 0 || total > minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %s%+d minutes overflows the day", ErrInvalidTimeString, t, m)
	}
	return TimeString{minutes: total, valid: true}, nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

// On возвращает момент времени на указанную дату в зоне даты
// Для 24:00 это полночь следующего дня
func (t TimeString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalText реализует encoding.TextMarshaler (используется и JSON, и TOML)
func (t TimeString) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (t *TimeString) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*t = TimeString{}
		return nil
	}
	parsed, err := NewTimeStringFromString(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	return t.String(), nil
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// postgres TIME отдаёт HH:MM:SS
	if len(s) >= 5 {
		s = s[:5]
	}
	return t.UnmarshalText([]byte(s))
}
