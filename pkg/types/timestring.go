package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeStringLayout = "15:04"

// ErrInvalidTimeString возвращается при попытке разобрать строку не в формате HH:MM
var ErrInvalidTimeString = errors.New("types: invalid time string, expected HH:MM")

// TimeString время суток в формате HH:MM
// Хранится строкой, чтобы одинаково сериализоваться в JSON, TOML и PostgreSQL (TIME)
type TimeString string

// NewTimeString возвращает время суток момента t
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString разбирает строку HH:MM (допускается HH:MM:SS из PostgreSQL)
func NewTimeStringFromString(s string) (TimeString, error) {
	if len(s) == len("15:04:05") {
		s = s[:len(timeStringLayout)]
	}
	if _, err := time.Parse(timeStringLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	_, err := NewTimeStringFromString(string(t))
	return err
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(timeStringLayout, string(t))
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes сдвигает время на заданное количество минут в пределах суток
func (t TimeString) AddMinutes(minutes int) TimeString {
	total := ((t.Minutes()+minutes)%(24*60) + 24*60) % (24 * 60)
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// IsBefore возвращает true, если t раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// On возвращает момент времени t в указанную дату
func (t TimeString) On(date time.Time) time.Time {
	m := t.Minutes()
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, date.Location())
}

func (t TimeString) String() string {
	return string(t)
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
